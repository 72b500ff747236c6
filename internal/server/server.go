// Package server exposes the weekly board over HTTP: JSON endpoints for the
// derived schedule, the molad and the tekufa markers, plus health and
// Prometheus metrics. A cron entry refreshes and archives the coming week,
// and the configuration file is watched for live edits.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"

	"github.com/pilou73/horaires-shabbat/internal/cache"
	"github.com/pilou73/horaires-shabbat/internal/config"
	"github.com/pilou73/horaires-shabbat/internal/hebcal"
	"github.com/pilou73/horaires-shabbat/internal/logging"
	"github.com/pilou73/horaires-shabbat/internal/store"
	"github.com/pilou73/horaires-shabbat/internal/week"
)

const shutdownTimeout = 10 * time.Second

// Options carries the optional dependencies. Zero fields fall back to the
// production wiring derived from the configuration.
type Options struct {
	Source week.Source      // calendar source; nil builds a hebcal client
	Cache  *cache.Cache     // response cache; nil disables caching
	Store  store.Store      // archive; nil disables the archive endpoints
	Log    logging.Logger
	Now    func() time.Time // clock override for tests
}

// Server is the HTTP face of the board.
type Server struct {
	mu        sync.RWMutex
	cfg       config.Config
	source    week.Source
	ownSource bool

	cache   *cache.Cache
	store   store.Store
	log     logging.Logger
	metrics *metrics
	cron    *cron.Cron
	now     func() time.Time
	router  chi.Router
}

// New assembles a server from the configuration. The refresh schedule is
// validated here; an empty spec disables it.
func New(cfg config.Config, opts Options) (*Server, error) {
	loc, err := cfg.Timezone()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		source:  opts.Source,
		cache:   opts.Cache,
		store:   opts.Store,
		log:     opts.Log,
		metrics: newMetrics(),
		now:     opts.Now,
	}
	if s.source == nil {
		s.source = hebcal.NewClient(cfg.Location.GeonameID)
		s.ownSource = true
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.cron = cron.New(
		cron.WithParser(cron.NewParser(
			cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithLocation(loc),
	)
	if spec := cfg.Server.Refresh; spec != "" {
		if _, err := s.cron.AddFunc(spec, s.refresh); err != nil {
			return nil, fmt.Errorf("server: refresh schedule %q: %w", spec, err)
		}
	}

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)
	r.Use(s.metrics.instrument)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/schedule", s.handleSchedule)
		r.Get("/molad", s.handleMolad)
		r.Get("/tekufa", s.handleTekufa)
		r.Get("/archive", s.handleArchive)
		r.Get("/archive/{date}", s.handleArchivedWeek)
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled. It starts the refresh schedule and the
// configuration watcher, signals readiness to systemd once the listener is
// up, and shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.snapshot().Server.Addr
	if addr == "" {
		addr = config.Defaults().Server.Addr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.cron.Start()
	defer s.cron.Stop()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go s.watchConfig(watchCtx)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		s.log.Warn("systemd notify failed", logging.Err(err))
	}
	s.log.Info("listening", logging.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return fmt.Errorf("server: serve: %w", err)
	}
}

// refresh builds the coming week and archives it. Failures are logged and
// counted; the previous archive row stays in place for the next run.
func (s *Server) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	wk, err := s.buildWeek(ctx, s.now())
	if err != nil {
		s.metrics.refreshes.WithLabelValues("error").Inc()
		s.log.Error("refresh failed", logging.Err(err))
		return
	}
	if s.store != nil {
		if err := s.store.SaveWeek(ctx, wk.Record()); err != nil {
			s.metrics.refreshes.WithLabelValues("error").Inc()
			s.log.Error("refresh archive failed", logging.Err(err))
			return
		}
	}

	s.metrics.refreshes.WithLabelValues("ok").Inc()
	s.metrics.lastRefresh.SetToCurrentTime()
	s.log.Info("week refreshed",
		logging.String("shabbat", wk.ShabbatDate.Format(dateLayout)),
		logging.String("parasha", wk.Parasha))
}

func (s *Server) snapshot() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// setConfig swaps the active configuration. A changed location rebuilds the
// calendar client unless one was injected.
func (s *Server) setConfig(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownSource && cfg.Location.GeonameID != s.cfg.Location.GeonameID {
		s.source = hebcal.NewClient(cfg.Location.GeonameID)
	}
	s.cfg = cfg
}

func (s *Server) location() (*time.Location, error) {
	cfg := s.snapshot()
	return cfg.Timezone()
}

func (s *Server) buildWeek(ctx context.Context, date time.Time) (*week.Week, error) {
	s.mu.RLock()
	cfg, src := s.cfg, s.source
	s.mu.RUnlock()

	loc, err := cfg.Timezone()
	if err != nil {
		return nil, err
	}
	b := &week.Builder{
		Source:    src,
		Cache:     s.cache,
		GeonameID: cfg.Location.GeonameID,
		Loc:       loc,
		Log:       s.log,
	}
	return b.Build(ctx, date)
}
