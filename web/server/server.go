package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/df07/toytracer/pkg/loaders"
	"github.com/df07/toytracer/pkg/renderer"
	"github.com/df07/toytracer/pkg/scene"
)

// Server handles web requests for the toy raytracer
type Server struct {
	port        int
	consoleChan chan ConsoleMessage
	renders     atomic.Int64
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{
		port:        port,
		consoleChan: make(chan ConsoleMessage, 256),
	}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Built-in scene name (e.g., "walls")
	Width   int    `json:"width"`   // Image width; 0 keeps the scene's width
	Height  int    `json:"height"`  // Image height; 0 keeps the scene's height
	Mapping string `json:"mapping"` // "unit" or "signed"; empty keeps the scene's mapping
	Policy  string `json:"policy"`  // "last" or "nearest"; empty keeps the scene's policy
	Quality int    `json:"quality"` // JPEG quality
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/console", s.handleConsole)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes with their default raster settings
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	type sceneInfo struct {
		Name       string `json:"name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Primitives int    `json:"primitives"`
		HitPolicy  string `json:"hitPolicy"`
	}

	var scenes []sceneInfo
	for _, name := range scene.BuiltinNames() {
		cfg, err := scene.Builtin(name)
		if err != nil {
			continue
		}
		policy := cfg.HitPolicy
		if policy == "" {
			policy = scene.LastHit.String()
		}
		scenes = append(scenes, sceneInfo{
			Name:       name,
			Width:      cfg.Width,
			Height:     cfg.Height,
			Primitives: len(cfg.Primitives),
			HitPolicy:  policy,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scenes})
}

// handleConsole drains the render log lines collected since the last call
func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	messages := []ConsoleMessage{}
drain:
	for {
		select {
		case msg := <-s.consoleChan:
			messages = append(messages, msg)
		default:
			break drain
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// handleRender renders a built-in scene and responds with a JPEG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	cfg, err := s.createConfig(req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	sceneObj, err := cfg.Build()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	renderConfig, err := cfg.RenderConfig()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	renderID := fmt.Sprintf("render-%d", s.renders.Add(1))
	raytracer, err := renderer.NewRasterizer(renderConfig, NewWebLogger(renderID, s.consoleChan))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Use request context to stop rendering when the client disconnects
	buf, stats, err := raytracer.Render(r.Context(), sceneObj)
	if err != nil {
		log.Printf("%s: render abandoned: %v", renderID, err)
		return
	}

	var body bytes.Buffer
	if err := loaders.EncodeJPEG(&body, buf, req.Quality); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Failed to encode image: %v", err)})
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Render-Id", renderID)
	w.Header().Set("X-Render-Hit-Pixels", strconv.Itoa(stats.HitPixels))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.WriteHeader(http.StatusOK)
	w.Write(body.Bytes())
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	query := r.URL.Query()

	if name := query.Get("scene"); name != "" {
		req.Scene = name
	} else {
		req.Scene = "walls" // Default scene
	}
	req.Mapping = query.Get("mapping")
	req.Policy = query.Get("policy")

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, 2000); err != nil {
		return nil, err
	}
	if req.Quality, err = parseIntParam(query, "quality", loaders.DefaultJPEGQuality, 1, 100); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 1200*1200 {
		log.Printf("Render warning: %dx%d image may render slowly", req.Width, req.Height)
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

// createConfig looks up the built-in scene and applies the request's overrides
func (s *Server) createConfig(req *RenderRequest) (*scene.Config, error) {
	cfg, err := scene.Builtin(req.Scene)
	if err != nil {
		return nil, err
	}
	if req.Width > 0 {
		cfg.Width = req.Width
	}
	if req.Height > 0 {
		cfg.Height = req.Height
	}
	if req.Mapping != "" {
		cfg.Mapping = req.Mapping
	}
	if req.Policy != "" {
		cfg.HitPolicy = req.Policy
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
