// Package server exposes the dashboard views as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KaramelBytes/boxoffice-cli/internal/dashboard"
	"github.com/KaramelBytes/boxoffice-cli/internal/filter"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// Config holds the server settings.
type Config struct {
	DataPath string
	Options  dashboard.Options
	PageSize int
	Logger   *slog.Logger
}

// Server answers dashboard queries against the cached dataset.
type Server struct {
	cache    *movies.Cache
	cfg      Config
	logger   *slog.Logger
	router   chi.Router
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// MoviesPage is the /api/movies response.
type MoviesPage struct {
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Rows     []dashboard.DetailRow `json:"rows"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// New builds a server reading cfg.DataPath through cache.
func New(cache *movies.Cache, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	s := &Server{
		cache:    cache,
		cfg:      cfg,
		logger:   cfg.Logger,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boxoffice_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boxoffice_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	s.registry.MustRegister(s.requests, s.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/home", s.withCriteria(func(ds *movies.Dataset, c filter.Criteria, _ *http.Request) (any, error) {
			return dashboard.Home(ds, c, s.cfg.Options), nil
		}))
		r.Get("/financial", s.withCriteria(func(ds *movies.Dataset, c filter.Criteria, _ *http.Request) (any, error) {
			return dashboard.Financial(ds, c, s.cfg.Options), nil
		}))
		r.Get("/video", s.withCriteria(func(ds *movies.Dataset, c filter.Criteria, _ *http.Request) (any, error) {
			return dashboard.Video(ds, c), nil
		}))
		r.Get("/movies", s.withCriteria(s.moviesPage))
		r.Get("/rank", s.withCriteria(func(ds *movies.Dataset, c filter.Criteria, req *http.Request) (any, error) {
			field, n, dir, err := rankParams(req.URL.Query(), s.cfg.Options.TopN)
			if err != nil {
				return nil, err
			}
			return dashboard.Rank(ds, c, field, n, dir), nil
		}))
		r.Get("/insights", s.withDataset(func(ds *movies.Dataset) any {
			return dashboard.Insights(ds, s.cfg.Options)
		}))
		r.Get("/options", s.withDataset(func(ds *movies.Dataset) any {
			return dashboard.FilterOptionsOf(ds)
		}))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("server listening", slog.String("addr", addr), slog.String("data", s.cfg.DataPath))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type criteriaHandler func(ds *movies.Dataset, c filter.Criteria, r *http.Request) (any, error)

func (s *Server) withCriteria(h criteriaHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := ParseCriteria(r.URL.Query())
		if err != nil {
			s.badRequest(w, r, err)
			return
		}
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		body, err := h(snap.Dataset, c, r)
		if err != nil {
			s.badRequest(w, r, err)
			return
		}
		render.JSON(w, r, body)
	}
}

func (s *Server) withDataset(h func(ds *movies.Dataset) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := s.snapshot(w, r)
		if !ok {
			return
		}
		render.JSON(w, r, h(snap.Dataset))
	}
}

func (s *Server) moviesPage(ds *movies.Dataset, c filter.Criteria, r *http.Request) (any, error) {
	p, size, err := page(r.URL.Query(), s.cfg.PageSize)
	if err != nil {
		return nil, err
	}
	rows := dashboard.DetailRows(filter.Apply(ds, c))
	start, end := dashboard.PageBounds(len(rows), p, size)
	return MoviesPage{Total: len(rows), Page: p, PageSize: size, Rows: rows[start:end]}, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, map[string]any{
		"status":    "ok",
		"snapshot":  snap.ID,
		"loaded_at": snap.LoadedAt.UTC().Format(time.RFC3339),
		"movies":    snap.Dataset.Len(),
	})
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (*movies.Snapshot, bool) {
	snap, err := s.cache.Get(s.cfg.DataPath)
	if err != nil {
		s.logger.Error("dataset unavailable", slog.String("path", s.cfg.DataPath), slog.Any("error", err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	w.Header().Set("X-Snapshot-ID", snap.ID)
	return snap, true
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var ve *filter.ValidationError
	if errors.As(err, &ve) {
		resp.Problems = ve.Problems
	}
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, resp)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		s.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
		s.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("status", code),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
