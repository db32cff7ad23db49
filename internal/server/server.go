package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/nikbrunner/kiosk/internal/dashboard"
	"github.com/nikbrunner/kiosk/internal/model"
	"github.com/nikbrunner/kiosk/internal/storage"
	"github.com/nikbrunner/kiosk/internal/surface"
)

// maxBodyBytes bounds a posted panel configuration.
const maxBodyBytes = 1 << 20

// Logger is the subset of *log.Logger the server writes to.
type Logger interface {
	Printf(format string, v ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// Params configures a Server.
type Params struct {
	Addr     string
	Storage  storage.Storage
	Manager  *dashboard.Manager
	Page     *surface.Page
	Registry *model.Registry
	Toggles  model.Enablement
	Tracer   trace.Tracer
	Logger   Logger
}

// Server serves the panel configuration and the live dashboard.
type Server struct {
	storage  storage.Storage
	manager  *dashboard.Manager
	page     *surface.Page
	registry *model.Registry
	toggles  model.Enablement
	tracer   trace.Tracer
	logger   Logger

	router *mux.Router
	server *http.Server
}

// New creates a Server.
func New(p Params) *Server {
	s := &Server{
		storage:  p.Storage,
		manager:  p.Manager,
		page:     p.Page,
		registry: p.Registry,
		toggles:  p.Toggles,
		tracer:   p.Tracer,
		logger:   p.Logger,
	}
	if s.registry == nil {
		s.registry = model.DefaultRegistry()
	}
	if s.toggles == nil {
		s.toggles = model.Toggles{}
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer("kiosk/server")
	}
	if s.logger == nil {
		s.logger = discardLogger{}
	}

	r := mux.NewRouter()
	r.Use(s.traceMiddleware)
	r.HandleFunc(storage.ReadPath, s.handleGetPanels).Methods(http.MethodGet).Name("panels.get")
	r.HandleFunc(storage.WritePath, s.handleSavePanels).Methods(http.MethodPost).Name("panels.save")
	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet).Name("dashboard")
	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet).Name("index")
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet).Name("health")
	s.router = r

	s.server = &http.Server{
		Addr:              p.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start begins listening (non-blocking).
// Serve errors other than shutdown are logged.
func (s *Server) Start() error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("server: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := "kiosk.http"
		if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
			name += "." + route.GetName()
		}
		ctx, span := s.tracer.Start(r.Context(), name,
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// handleGetPanels handles GET /config/panels.json.
func (s *Server) handleGetPanels(w http.ResponseWriter, r *http.Request) {
	doc, err := s.storage.Load(r.Context())
	if err != nil {
		s.logger.Printf("server: load panels: %v", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type saveResponse struct {
	Status   string   `json:"status"`
	Problems []string `json:"problems,omitempty"`
}

// handleSavePanels handles POST /config/panels.
func (s *Server) handleSavePanels(w http.ResponseWriter, r *http.Request) {
	var posted model.Document
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&posted); err != nil {
		http.Error(w, "invalid panel configuration: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc := model.NewDocument(posted.Layout, posted.ActivePanels, s.registry, s.toggles)
	if err := s.storage.Save(r.Context(), doc); err != nil {
		s.logger.Printf("server: save panels: %v", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	if s.manager != nil {
		report := s.manager.Use(r.Context(), doc)
		if len(report.Skipped) > 0 {
			s.logger.Printf("server: saved layout skipped panels %v", report.Skipped)
		}
	}

	resp := saveResponse{Status: "ok"}
	for _, p := range doc.Layout.Problems() {
		resp.Problems = append(resp.Problems, p.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDashboard handles GET /dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.page == nil || s.manager == nil {
		http.Error(w, "no dashboard configured", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	var err error
	s.manager.WithSurface(func(dashboard.Surface) {
		err = s.page.Render(&buf)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
