package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/observability/metrics"
	"github.com/lendoor/lendoor-indexer/internal/observability/tracing"
)

const (
	requestTimeout  = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	httpServer *http.Server
}

func New(cfg *config.Config, db db.DbInterface) *Server {
	h := NewHandler(&cfg.API, db)
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.API.Addr(),
			Handler:      NewRouter(h),
			ReadTimeout:  requestTimeout,
			WriteTimeout: requestTimeout,
			IdleTimeout:  idleTimeout,
		},
	}
}

// NewRouter mounts the read only routes of the query api.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthcheck", h.registerHandler(h.HealthCheck))
	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", h.registerHandler(h.GetProtocolStats))
		r.Get("/stats/daily", h.registerHandler(h.GetDailyStats))
		r.Get("/borrowers/{account}", h.registerHandler(h.GetBorrower))
		r.Get("/activities", h.registerHandler(h.GetVaultActivities))
		r.Get("/loan-activities", h.registerHandler(h.GetLoanActivities))
		r.Get("/snapshots", h.registerHandler(h.GetVaultStatusSnapshots))
	})

	return r
}

// observe attaches a trace id to the request logger and records the
// request duration by route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(tracing.InjectTraceID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unknown"
		}
		duration := time.Since(start)
		metrics.RecordHttpRequestDuration(duration, route, r.Method, ww.Status())

		log.Ctx(r.Context()).Debug().
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", duration).
			Msg("Request served")
	})
}

// Start serves until ctx is done, then shuts the server down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting query api on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
