package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-raydiance/pkg/renderer"
)

// SSEEvent is one Server-Sent Event; all events go through a single writer
type SSEEvent struct {
	Type string // "console", "pass", "error", "complete"
	Data string // JSON-encoded payload or plain message
}

// PassUpdate is the payload of a "pass" event
type PassUpdate struct {
	PassNumber     int     `json:"passNumber"`
	TotalPasses    int     `json:"totalPasses"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	SampleCount    int     `json:"sampleCount"`
	AverageSamples float64 `json:"averageSamples"`
	TotalSamples   int     `json:"totalSamples"`
	InvalidSamples int     `json:"invalidSamples"`
	Rays           uint64  `json:"rays"`
	PassMs         int64   `json:"passMs"`
	ElapsedMs      int64   `json:"elapsedMs"`
	IsComplete     bool    `json:"isComplete"`
}

// handleRender streams a progressive render as Server-Sent Events, one
// tonemapped frame per pass
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	setSSEHeaders(w)
	ctx := r.Context()

	events := make(chan SSEEvent, 16)
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		writeSSEEvents(ctx, w, events)
	}()
	defer func() {
		close(events)
		writer.Wait()
	}()

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, s.logger, consoleChan)

	var console sync.WaitGroup
	console.Add(1)
	go func() {
		defer console.Done()
		streamConsoleMessages(ctx, consoleChan, events)
	}()
	defer func() {
		close(consoleChan)
		console.Wait()
	}()

	pr, err := newRenderer(req, webLogger)
	if err != nil {
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: err.Error()})
		return
	}
	defer pr.Close()

	renderCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Passes are drained even after a failure so the render goroutine has
	// stopped logging before the console channel closes
	start := time.Now()
	passes, errs := pr.RenderProgressive(renderCtx)
	var failure error
	for result := range passes {
		if failure != nil {
			continue
		}
		update, err := newPassUpdate(result, req, start)
		if err == nil {
			var data []byte
			if data, err = json.Marshal(update); err == nil {
				sendEvent(ctx, events, SSEEvent{Type: "pass", Data: string(data)})
				continue
			}
		}
		failure = err
		cancel()
	}

	err = <-errs
	switch {
	case failure != nil:
		sendEvent(ctx, events, SSEEvent{Type: "error", Data: failure.Error()})
	case err != nil:
		if ctx.Err() == nil {
			sendEvent(ctx, events, SSEEvent{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", err)})
		}
	default:
		sendEvent(ctx, events, SSEEvent{Type: "complete", Data: "Rendering completed"})
	}
}

func newPassUpdate(result renderer.PassResult, req *RenderRequest, start time.Time) (PassUpdate, error) {
	imageData, err := imageToBase64PNG(renderer.ToImage(result.Frame, req.Exposure))
	if err != nil {
		return PassUpdate{}, fmt.Errorf("failed to encode image: %w", err)
	}
	return PassUpdate{
		PassNumber:     result.PassNumber,
		TotalPasses:    req.MaxPasses,
		ImageData:      imageData,
		SampleCount:    result.Frame.SampleCount,
		AverageSamples: result.Stats.AverageSamples,
		TotalSamples:   result.Stats.TotalSamples,
		InvalidSamples: result.Stats.InvalidSamples,
		Rays:           result.Stats.Rays,
		PassMs:         result.Stats.PassTime.Milliseconds(),
		ElapsedMs:      time.Since(start).Milliseconds(),
		IsComplete:     result.IsLast,
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendEvent queues an event unless the client has gone
func sendEvent(ctx context.Context, events chan<- SSEEvent, event SSEEvent) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// writeSSEEvents writes every queued event until the channel is closed or
// the client disconnects. After a failed write the rest are discarded.
func writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	broken := false
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if broken {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				broken = true
				continue
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events, dropping
// them when the event queue is full
func streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- SSEEvent) {
	for {
		select {
		case msg, ok := <-consoleChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			select {
			case events <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
			}

		case <-ctx.Done():
			return
		}
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
