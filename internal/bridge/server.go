package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/kingrea/spawnhook/internal/spawn"
)

// ProtocolVersion is reported by /health.
const ProtocolVersion = 1

// DirectiveCountHeader carries the number of directives found by /process.
const DirectiveCountHeader = "X-Spawnhook-Directives"

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
	StatusStopped  ServerStatus = "stopped"
)

// ErrDisabled is returned by Run when settings disable the bridge.
var ErrDisabled = errors.New("bridge: server disabled")

// Analyzer turns command text into a spawn plan.
type Analyzer interface {
	Analyze(content string) spawn.Plan
}

// Logger is the minimal logging surface the server needs.
type Logger interface {
	Printf(format string, args ...any)
}

// Server exposes the spawn pipeline over HTTP for hosts that prefer a
// long-lived process to spawning the filter per command.
type Server struct {
	settings Settings
	analyzer Analyzer
	logger   Logger
	clock    func() time.Time
	newID    func() string
	router   chi.Router

	mu        sync.RWMutex
	status    ServerStatus
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithAnalyzer overrides the default builtin-alias processor.
func WithAnalyzer(a Analyzer) Option {
	return func(s *Server) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator allows tests to control run ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Server) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewServer prepares a bridge server using the provided settings.
func NewServer(settings Settings, opts ...Option) *Server {
	s := &Server{
		settings: settings.withLimits(),
		analyzer: spawn.NewProcessor(),
		logger:   nopLogger{},
		clock:    func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.NewString() },
		status:   StatusStarting,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler without binding a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Head("/health", s.handleHealth)
	r.Post("/process", s.handleProcess)
	r.Post("/plan", s.handlePlan)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	return r
}

// Run binds the configured address and serves until ctx is done, then
// gives in-flight requests DrainTimeout to finish. ready, when non-nil, is
// called with the base URL once the listener is bound; with port 0 that is
// the only way to learn the port.
func (s *Server) Run(ctx context.Context, ready func(baseURL string)) error {
	if !s.settings.Enabled {
		return ErrDisabled
	}
	addr := net.JoinHostPort(s.settings.Host, strconv.Itoa(s.settings.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge: listen %s: %w", addr, err)
	}
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}

	baseURL := "http://" + listener.Addr().String()
	s.setStatus(StatusReady)
	s.logger.Printf("bridge: listening on %s", baseURL)
	if ready != nil {
		ready(baseURL)
	}

	served := make(chan error, 1)
	go func() {
		served <- httpServer.Serve(listener)
	}()

	select {
	case err := <-served:
		s.setStatus(StatusStopped)
		return fmt.Errorf("bridge: serve: %w", err)
	case <-ctx.Done():
	}

	s.setStatus(StatusDraining)
	s.logger.Printf("bridge: draining")
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settings.DrainTimeout)
	defer cancel()
	err = httpServer.Shutdown(drainCtx)
	s.setStatus(StatusStopped)
	if err != nil {
		return fmt.Errorf("bridge: drain: %w", err)
	}
	return nil
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) setStatus(status ServerStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == StatusReady {
		s.startTime = s.clock()
	}
	s.status = status
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(s.clock().Sub(s.startTime).Seconds())
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       int    `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type groupResponse struct {
	Phase      string            `json:"phase,omitempty"`
	Directives []spawn.Directive `json:"directives"`
}

type planResponse struct {
	RunID      string            `json:"run_id"`
	Directives []spawn.Directive `json:"directives"`
	Groups     []groupResponse   `json:"groups"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.Status()),
		Version:       ProtocolVersion,
		UptimeSeconds: s.uptimeSeconds(),
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	content, ok := s.readCommand(w, r)
	if !ok {
		return
	}
	plan := s.analyzer.Analyze(content)
	s.logger.Printf("bridge: process request=%s directives=%d groups=%d",
		chimw.GetReqID(r.Context()), len(plan.Directives), len(plan.Groups))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set(DirectiveCountHeader, strconv.Itoa(len(plan.Directives)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, plan.Apply(content))
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	content, ok := s.readCommand(w, r)
	if !ok {
		return
	}
	plan := s.analyzer.Analyze(content)
	resp := planResponse{
		RunID:      s.newID(),
		Directives: plan.Directives,
		Groups:     make([]groupResponse, 0, len(plan.Groups)),
	}
	if resp.Directives == nil {
		resp.Directives = []spawn.Directive{}
	}
	for _, g := range plan.Groups {
		resp.Groups = append(resp.Groups, groupResponse{Phase: g.Label, Directives: g.Directives})
	}
	s.logger.Printf("bridge: plan run=%s directives=%d groups=%d", resp.RunID, len(plan.Directives), len(plan.Groups))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readCommand(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Body == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty body"})
		return "", false
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload exceeds limit"})
			return "", false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unable to read body"})
		return "", false
	}
	return string(body), true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
