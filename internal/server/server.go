package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fabriciorodias/matriculas-analyzer/internal/analise"
	"github.com/fabriciorodias/matriculas-analyzer/internal/export"
	"github.com/fabriciorodias/matriculas-analyzer/internal/pdftext"
)

// Analyzer is the pipeline boundary the HTTP surface depends on.
type Analyzer interface {
	Analyze(ctx context.Context, path string, progress pdftext.Progress) (*analise.Result, error)
}

type Server struct {
	logger         *slog.Logger
	analyzer       Analyzer
	cache          *analise.Cache
	exporter       *export.Service
	maxUploadBytes int64
}

func New(analyzer Analyzer, cache *analise.Cache, exporter *export.Service, maxUploadMB int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	return &Server{
		logger:         logger,
		analyzer:       analyzer,
		cache:          cache,
		exporter:       exporter,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/analises", func(r chi.Router) {
		r.Post("/", s.handleAnalyze)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/xlsx", s.handleExport)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
