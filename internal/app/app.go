package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkfest/desk-go/internal/archive"
	"github.com/inkfest/desk-go/internal/auth"
	"github.com/inkfest/desk-go/internal/clock"
	"github.com/inkfest/desk-go/internal/config"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/ledger"
	"github.com/inkfest/desk-go/internal/postgres"
	redisx "github.com/inkfest/desk-go/internal/redis"
	"github.com/inkfest/desk-go/internal/service"
	"github.com/inkfest/desk-go/internal/service/sales"
	httpgin "github.com/inkfest/desk-go/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

const (
	hubBuffer       = 64
	purchaseLimit   = 30
	purchaseWindow  = time.Minute
	shutdownTimeout = 5 * time.Second
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	broadcast := hub.New(hubBuffer)
	led := ledger.New(broadcast, clock.NewReal())
	gate := auth.NewGate(cfg.Admin.Password)

	// Optional collaborators: both degrade to nil when unconfigured.
	var limiter sales.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisx.New(context.Background(), redisx.Config{Addr: cfg.Redis.Addr})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		limiter = redisx.NewSlidingWindowLimiter(rdb, "deskgo:v1:rl", purchaseLimit, purchaseWindow)
	}

	var sink sales.SaleSink
	if cfg.Postgres.DSN != "" {
		pool, err := postgres.New(context.Background(), postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		arch := archive.New(pool, logger)
		if err := arch.Init(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to initialize sales archive: %w", err)
		}
		sink = arch
	}

	services := service.NewServices(led, gate, sink, limiter)

	router := httpgin.NewRouter(services, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
