package server

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// sseEvent is one parsed Server-Sent Event
type sseEvent struct {
	Type string
	Data string
}

func readSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 1<<20), 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.Data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if current.Type != "" {
				events = append(events, current)
			}
			current = sseEvent{}
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("Reading SSE stream failed: %v", err)
	}
	return events
}

func get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(0, nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, "/api/health")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected health response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestScenes(t *testing.T) {
	rec := get(t, "/api/scenes")
	var resp struct {
		Groups []struct {
			Name   string `json:"name"`
			Scenes []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"groups"`
		Skies map[string]string `json:"skies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(resp.Groups) == 0 || len(resp.Skies) == 0 {
		t.Errorf("Expected scene groups and skies, got %+v", resp)
	}
	if _, ok := resp.Skies["uniform"]; !ok {
		t.Error("Uniform sky missing")
	}
}

func TestParseRenderRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"defaults", "", false},
		{"full", "scene=triangle&width=64&height=48&maxSamples=8&maxPasses=2&maxBounces=0&mode=normals&exposure=-1&seed=7", false},
		{"width too large", "width=5000", true},
		{"width not a number", "width=wide", true},
		{"zero samples", "maxSamples=0", true},
		{"unknown mode", "mode=depth", true},
		{"bad seed", "seed=-1", true},
		{"exposure out of range", "exposure=40", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req, err := parseRenderRequest(values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRenderRequest(%q) error = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if tt.name == "defaults" && (req.Scene != "cornell" || req.Width != 400 || req.MaxSamples != 50) {
				t.Errorf("Unexpected defaults: %+v", req)
			}
			if tt.name == "full" && (req.Scene != "triangle" || req.Seed != 7 || req.MaxBounces != 0 || req.Exposure != -1) {
				t.Errorf("Parameters not applied: %+v", req)
			}
		})
	}
}

func TestRenderStream(t *testing.T) {
	rec := get(t, "/api/render?scene=triangle&width=16&height=12&maxSamples=4&maxPasses=2")
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected an event stream, got %q", ct)
	}

	var passes []PassUpdate
	var complete bool
	for _, event := range readSSE(t, rec.Body.String()) {
		switch event.Type {
		case "pass":
			var update PassUpdate
			if err := json.Unmarshal([]byte(event.Data), &update); err != nil {
				t.Fatalf("Invalid pass payload: %v", err)
			}
			passes = append(passes, update)
		case "complete":
			complete = true
		case "error":
			t.Fatalf("Render failed: %s", event.Data)
		}
	}

	if len(passes) != 2 || !complete {
		t.Fatalf("Expected 2 passes and completion, got %d passes (complete=%v)", len(passes), complete)
	}
	if passes[0].SampleCount != 1 || passes[1].SampleCount != 4 || !passes[1].IsComplete {
		t.Errorf("Unexpected pass progression: %+v", passes)
	}
	if passes[1].ImageData == "" || passes[1].Rays == 0 {
		t.Error("Pass update missing image or stats")
	}
}

func TestRenderStream_InvalidRequest(t *testing.T) {
	for _, query := range []string{"width=0", "scene=nonexistent&width=8&height=8"} {
		events := readSSE(t, get(t, "/api/render?"+query).Body.String())
		if len(events) == 0 || events[len(events)-1].Type != "error" {
			t.Errorf("Query %q: expected an error event, got %+v", query, events)
		}
	}
}

func TestInspect(t *testing.T) {
	rec := get(t, "/api/inspect?scene=triangle&width=16&height=12&x=8&y=6")
	if rec.Code != http.StatusOK {
		t.Fatalf("Unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var resp InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Hit || !resp.FrontFace || resp.MaterialType != "lambertian" {
		t.Errorf("Expected a front-face Lambertian hit, got %+v", resp)
	}
	if resp.Normal != [3]float64{0, 0, 1} {
		t.Errorf("Normal = %v, expected +Z", resp.Normal)
	}

	// The corner sees only sky
	rec = get(t, "/api/inspect?scene=triangle&width=16&height=12&x=0&y=0")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Hit {
		t.Errorf("Expected a miss at the corner, got %+v", resp)
	}

	if rec := get(t, "/api/inspect?scene=triangle&width=16&height=12&x=16"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a pixel outside the image, got %d", rec.Code)
	}
}
