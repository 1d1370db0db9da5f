package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/outage-news-etl/internal/domain"
)

// RecordSource loads the current dataset.
type RecordSource interface {
	Load() ([]domain.OutageRecord, error)
}

// Server exposes the dataset feed plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	records    RecordSource
	logger     *slog.Logger
}

// recordView is a record as served to renderers, with its cause symbol.
type recordView struct {
	domain.OutageRecord
	ReasonSymbol string `json:"reason_symbol"`
}

// NewServer creates an HTTP server with /records, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, records RecordSource, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		records: records,
		logger:  logger,
	}

	mux.HandleFunc("GET /records", s.handleRecords)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

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

// handleRecords serves the dataset. ?affected=true keeps records with a
// positive household count; ?month=YYYY-MM keeps one month.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	affected := false
	if v := q.Get("affected"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "affected must be a boolean"})
			return
		}
		affected = b
	}

	var month *domain.YearMonth
	if v := q.Get("month"); v != "" {
		ym, err := domain.ParseYearMonth(v)
		if err != nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM"})
			return
		}
		month = &ym
	}

	records, err := s.records.Load()
	if err != nil {
		s.logger.Error("load dataset failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "dataset unavailable"})
		return
	}

	if affected {
		records = domain.WithHouseholds(records)
	}
	if month != nil {
		records = domain.FilterRecords(records, func(rec domain.OutageRecord) bool {
			return domain.MonthOf(rec.Date) == *month
		})
	}

	views := make([]recordView, len(records))
	for i, rec := range records {
		views[i] = recordView{OutageRecord: rec, ReasonSymbol: rec.ReasonSymbol()}
	}
	sharedobs.WriteJSON(w, http.StatusOK, views)
}
