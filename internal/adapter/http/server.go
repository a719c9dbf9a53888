package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Trimetilamin/Temperature-monitor/internal/domain"
	"github.com/Trimetilamin/Temperature-monitor/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxUploadBytes caps the size of an uploaded logger file.
const maxUploadBytes = 64 << 20

// ReportService is the session behaviour the report routes need.
type ReportService interface {
	sharedobs.ReadinessChecker
	LoadReader(ctx context.Context, source string, r io.Reader) (pipeline.LoadSummary, error)
	Dataset() *domain.LogDataset
	Plan(month string) (domain.ReportPlan, error)
	Export(ctx context.Context, month string, w io.Writer) (domain.ReportPlan, error)
}

// Server exposes health, readiness, metrics, and report HTTP endpoints.
type Server struct {
	httpServer *http.Server
	service    ReportService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the
// /v1 report routes.
func NewServer(addr string, service ReportService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(service))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /v1/logs", s.handleUpload)
	mux.HandleFunc("GET /v1/months", s.handleMonths)
	mux.HandleFunc("GET /v1/reports/{month}", s.handleReport)
	mux.HandleFunc("GET /v1/reports/{month}/pdf", s.handleReportPDF)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
