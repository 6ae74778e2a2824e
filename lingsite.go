// Package lingsite serves the team site: one prerendered document whose
// pages are switched in the client, plus a small JSON API that drives the
// per-session navigation state and exposes resolved page metadata.
package lingsite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lingloft/lingsite/analytics"
	"github.com/lingloft/lingsite/content"
	"github.com/lingloft/lingsite/seo"
	"github.com/lingloft/lingsite/site"
)

// App wires the site data, navigation sessions, analytics and HTTP routes.
type App struct {
	Config Config
	Site   *site.Site
	Echo   *echo.Echo
	Logger *zap.Logger

	resolver seo.Resolver
	binder   *content.Binder
	limiter  *RateLimiter

	store       *analytics.Store
	recorder    *analytics.Recorder
	stats       *analytics.StatsCache
	stopCleanup func()

	customRoutes []func(*App)
	initialized  bool
}

// Option configures additional App behaviour.
type Option func(*App)

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) { a.Logger = l }
}

// WithCustomRoutes registers additional routes before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) { a.customRoutes = append(a.customRoutes, fn) }
}

// New creates an App for an already validated site. s must come from
// site.Load or site.Default, which reject inconsistent data.
func New(cfg Config, s *site.Site, opts ...Option) *App {
	cfg.setDefaults()
	a := &App{
		Config:   cfg,
		Site:     s,
		Echo:     echo.New(),
		Logger:   zap.NewNop(),
		resolver: seo.NewResolver(s.Registry, s.Identity),
		binder:   s.Binder(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	return a
}

// Init opens the analytics store, installs middleware and routes. It is
// called by Start; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.validate(); err != nil {
		return err
	}

	a.limiter = NewRateLimiter(a.Config.NavigateLimit, a.Config.NavigateWindow)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("lingsite: init analytics: %w", err)
		}
		a.store = store
		a.recorder = analytics.NewRecorder(store, a.Logger.Named("analytics"))
		a.stats = analytics.NewStatsCache(store, a.Config.StatsCacheTTL)
		a.stopCleanup = store.StartCleanupScheduler(a.Config.AnalyticsRetention, 24*time.Hour, a.Logger)
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initialises the app and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", zap.String("addr", a.Config.Addr), zap.Int("pages", a.Site.Registry.Len()))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", handleHealthz)
	e.Static("/public", a.Config.StaticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/", a.handleRoot)

	api := e.Group("/api")
	api.GET("/pages", a.handlePages)
	api.GET("/pages/:id/meta", a.handlePageMeta)
	api.GET("/pages/:id/content", a.handlePageContent)
	api.GET("/state", a.handleState)
	api.POST("/navigate", a.handleNavigate)

	if a.store != nil {
		analytics.NewHandler(a.store, a.stats).RegisterRoutes(api)
	}
}

// Close releases the analytics store and background workers.
func (a *App) Close() error {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
