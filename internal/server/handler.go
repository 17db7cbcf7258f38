// Package server exposes a theme config over read-only HTTP endpoints.
package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"themekit/internal/artifact"
	"themekit/internal/resolve"
	"themekit/internal/theme"
	"themekit/internal/validator"
)

// snapshot holds the encoded bodies for one config.
type snapshot struct {
	version string
	etag    string
	config  []byte
	merged  []byte
	module  []byte
	check   []byte
}

// Handler serves one theme config. Bodies are encoded once per Set.
type Handler struct {
	log    logr.Logger
	events *hub

	mu   sync.RWMutex
	snap *snapshot
}

// NewHandler creates a handler serving cfg.
func NewHandler(cfg theme.Config, log logr.Logger) (*Handler, error) {
	h := &Handler{log: log, events: newHub()}
	if err := h.Set(cfg); err != nil {
		return nil, err
	}
	return h, nil
}

// Set swaps the served config and notifies event subscribers when the
// version changed.
func (h *Handler) Set(cfg theme.Config) error {
	art := artifact.Generate(cfg)

	configJSON, err := cfg.ToJSON()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	mergedJSON, err := json.MarshalIndent(resolve.Resolve(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding merged tokens: %w", err)
	}
	module, err := cfg.ToModule()
	if err != nil {
		return fmt.Errorf("encoding module: %w", err)
	}
	checkJSON, err := json.MarshalIndent(validator.Validate(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding validation result: %w", err)
	}

	snap := &snapshot{
		version: art.ConfigVersion,
		etag:    `"` + art.ConfigVersion + `"`,
		config:  configJSON,
		merged:  mergedJSON,
		module:  module,
		check:   checkJSON,
	}

	h.mu.Lock()
	prev := h.snap
	h.snap = snap
	h.mu.Unlock()
	h.log.V(1).Info("serving theme", "version", art.Short())

	if prev != nil && prev.version != snap.version {
		h.events.broadcast(VersionEvent{Type: "version", ConfigVersion: snap.version})
	}
	return nil
}

func (h *Handler) current() *snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Routes returns the mux with every endpoint registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/theme", h.HandleTheme)
	mux.HandleFunc("/api/theme/version", h.HandleVersion)
	mux.HandleFunc("/api/theme/check", h.HandleCheck)
	mux.HandleFunc("/api/theme/events", h.HandleEvents)
	mux.HandleFunc("/tailwind.config.js", h.HandleModule)
	return h.logRequests(mux)
}

// HandleTheme serves the config as JSON, or the merged tokens with ?merged=1.
func (h *Handler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	snap := h.current()
	body := snap.config
	etag := snap.etag
	if isTruthy(r.URL.Query().Get("merged")) {
		body = snap.merged
		etag = `"` + strings.Trim(snap.etag, `"`) + `-merged"`
	}
	h.serve(w, r, etag, "application/json", body)
}

// HandleVersion serves the config version.
func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	snap := h.current()
	body, _ := json.Marshal(map[string]string{"configVersion": snap.version})
	h.serve(w, r, snap.etag, "application/json", append(body, '\n'))
}

// HandleCheck serves the validation result of the config.
func (h *Handler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	snap := h.current()
	h.serve(w, r, snap.etag, "application/json", snap.check)
}

// HandleModule serves the config as a CommonJS module.
func (h *Handler) HandleModule(w http.ResponseWriter, r *http.Request) {
	snap := h.current()
	h.serve(w, r, snap.etag, "text/javascript; charset=utf-8", snap.module)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, etag, contentType string, body []byte) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

// matchesETag reports whether an If-None-Match header covers etag.
func matchesETag(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// Hijack lets the event stream take over the connection.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.V(1).Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}
