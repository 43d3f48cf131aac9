package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-raydiance/pkg/core"
	"github.com/df07/go-raydiance/pkg/geometry"
	"github.com/df07/go-raydiance/pkg/integrator"
	"github.com/df07/go-raydiance/pkg/renderer"
	"github.com/df07/go-raydiance/pkg/scene"
	"github.com/df07/go-raydiance/pkg/sky"
)

// DefaultTileSize is the tile edge used for web renders
const DefaultTileSize = 32

// Server handles web requests for the progressive renderer
type Server struct {
	port   int
	logger core.Logger
	mux    *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}
	s := &Server{port: port, logger: logger, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	return s
}

// Handler returns the server's request router
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.mux,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Noticef("starting web server on http://localhost%s", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errChan; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// SceneRequest holds the parameters shared by every scene endpoint
type SceneRequest struct {
	Scene  string `json:"scene"`  // Built-in scene name
	Width  int    `json:"width"`  // Image width
	Height int    `json:"height"` // Image height
	Sky    string `json:"sky"`    // Sky model override, empty for the scene's
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	SceneRequest
	MaxSamples int                      `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int                      `json:"maxPasses"`  // Maximum number of passes
	MaxBounces int                      `json:"maxBounces"` // Scattering events per path
	Mode       integrator.Visualization `json:"mode"`
	Exposure   float64                  `json:"exposure"` // Stops
	Seed       uint64                   `json:"seed"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes by group and the sky models
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	type sceneEntry struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		Description string `json:"description"`
	}
	type groupEntry struct {
		Name   string       `json:"name"`
		Scenes []sceneEntry `json:"scenes"`
	}

	var groups []groupEntry
	for _, g := range scene.ListGroups() {
		entry := groupEntry{Name: g.Name}
		for _, info := range g.Scenes {
			entry.Scenes = append(entry.Scenes, sceneEntry{ID: info.ID, DisplayName: info.DisplayName, Description: info.Description})
		}
		groups = append(groups, entry)
	}

	skies := make(map[string]string)
	for _, name := range sky.Models() {
		skies[name] = sky.Describe(name)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": groups,
		"skies":  skies,
	})
}

// parseSceneParams parses the parameters shared by every scene endpoint
func parseSceneParams(values url.Values) (SceneRequest, error) {
	req := SceneRequest{
		Scene: values.Get("scene"),
		Sky:   values.Get("sky"),
	}
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 1, 2000); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", 300, 1, 2000); err != nil {
		return req, err
	}
	return req, nil
}

// parseRenderRequest parses request parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	common, err := parseSceneParams(values)
	if err != nil {
		return nil, err
	}
	req := &RenderRequest{SceneRequest: common}

	if req.MaxSamples, err = parseIntParam(values, "maxSamples", 50, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(values, "maxPasses", 7, 1, 10000); err != nil {
		return nil, err
	}
	if req.MaxBounces, err = parseIntParam(values, "maxBounces", 5, 0, 64); err != nil {
		return nil, err
	}
	if req.Exposure, err = parseFloatParam(values, "exposure", 0, -16, 16); err != nil {
		return nil, err
	}
	if mode := values.Get("mode"); mode != "" {
		if req.Mode, err = integrator.ParseVisualization(mode); err != nil {
			return nil, err
		}
	}
	if seed := values.Get("seed"); seed != "" {
		if req.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", seed)
		}
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// buildScene creates the requested scene and its world
func buildScene(req SceneRequest, logger core.Logger) (*scene.Scene, *geometry.World, error) {
	s, err := scene.Builtin(req.Scene)
	if err != nil {
		return nil, nil, err
	}
	if req.Sky != "" {
		s.SkyModel = req.Sky
	}
	world, err := geometry.NewWorld(s, logger)
	if err != nil {
		return nil, nil, err
	}
	return s, world, nil
}

// newRenderer creates a progressive renderer for req
func newRenderer(req *RenderRequest, logger core.Logger) (*renderer.ProgressiveRenderer, error) {
	s, world, err := buildScene(req.SceneRequest, logger)
	if err != nil {
		return nil, err
	}

	config := renderer.DefaultConfig()
	config.Width = req.Width
	config.Height = req.Height
	config.TileSize = DefaultTileSize
	config.MaxSamplesPerPixel = req.MaxSamples
	config.MaxPasses = req.MaxPasses
	config.MaxBounces = req.MaxBounces
	config.Visualization = req.Mode
	config.Seed = req.Seed

	return renderer.NewProgressiveRenderer(world, s, config, logger)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
