package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
	"github.com/alanyoungcy/auctionhouse/internal/pipeline"
	"github.com/alanyoungcy/auctionhouse/internal/server"
	"github.com/alanyoungcy/auctionhouse/internal/server/handler"
	"github.com/alanyoungcy/auctionhouse/internal/service"
)

// services is the service layer built on one Dependencies set.
type services struct {
	bidding   *service.BiddingService
	lifecycle *service.LifecycleService
	orders    *service.OrderService
}

func (a *App) buildServices(deps *Dependencies) services {
	events := service.NewEventPublisher(deps.SignalBus, deps.Notifier, a.logger)
	extend := service.NewExtendSettingsCache(
		deps.Repo.Settings(),
		domain.ExtendSettings{
			Window:    a.cfg.Lifecycle.ExtendWindow.Duration,
			Extension: a.cfg.Lifecycle.ExtendBy.Duration,
		},
		a.cfg.Lifecycle.SettingsTTL.Duration,
		a.logger,
	)
	return services{
		bidding: service.NewBiddingService(deps.Repo, extend, events, service.BiddingConfig{
			MinRatingPercent: a.cfg.Bidding.MinRatingPercent,
			HistoryLimit:     a.cfg.Bidding.HistoryLimit,
			MaxHistoryLimit:  a.cfg.Bidding.MaxHistoryLimit,
		}, a.logger),
		lifecycle: service.NewLifecycleService(deps.Repo, events, a.cfg.Lifecycle.FinalizeBatch, a.logger),
		orders:    service.NewOrderService(deps.Repo, events, a.logger),
	}
}

func (a *App) newFinalizer(svc services) *pipeline.Finalizer {
	return pipeline.NewFinalizer(svc.lifecycle, a.cfg.Lifecycle.FinalizeInterval.Duration, a.logger)
}

// newArchiver returns nil when archiving is disabled.
func (a *App) newArchiver(deps *Dependencies) *pipeline.Archiver {
	if deps.BidArchiver == nil {
		return nil
	}
	return pipeline.NewArchiver(deps.BidArchiver, deps.LockManager, a.cfg.Archive.RetentionDays, a.logger)
}

// APIMode serves HTTP only. Admin finalize requests sweep inline because no
// background loop runs in this process.
func (a *App) APIMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting api mode")

	g, ctx := errgroup.WithContext(ctx)
	svc := a.buildServices(deps)
	a.startHTTPServer(ctx, g, deps, svc, a.newFinalizer(svc), false)
	return g.Wait()
}

// FinalizerMode runs the due-auction finalizer and the bid archiver. It
// exposes only the health endpoint.
func (a *App) FinalizerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting finalizer mode")

	g, ctx := errgroup.WithContext(ctx)
	svc := a.buildServices(deps)

	orch := pipeline.NewOrchestrator(a.newFinalizer(svc), a.newArchiver(deps), a.cfg.Archive.Cron, a.logger)
	g.Go(func() error { return orch.Run(ctx) })

	a.startHealthServer(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the finalizer, the archiver and the HTTP API in one process.
// Admin finalize requests are queued onto the running finalizer.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	svc := a.buildServices(deps)
	finalizer := a.newFinalizer(svc)

	orch := pipeline.NewOrchestrator(finalizer, a.newArchiver(deps), a.cfg.Archive.Cron, a.logger)
	g.Go(func() error { return orch.Run(ctx) })

	a.startHTTPServer(ctx, g, deps, svc, finalizer, true)
	return g.Wait()
}

// startHTTPServer adds the API server and its graceful shutdown to g.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, svc services, finalizer *pipeline.Finalizer, queued bool) {
	h := server.Handlers{
		Health:   handler.NewHealthHandler(a.cfg.Mode, deps.Checks, a.logger),
		Auctions: handler.NewAuctionHandler(svc.bidding, a.logger),
		Orders:   handler.NewOrderHandler(svc.orders, a.logger),
		Admin:    handler.NewAdminHandler(finalizer, svc.lifecycle, queued, a.logger),
	}
	a.serve(ctx, g, h, deps.RateLimiter)
}

func (a *App) startHealthServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	h := server.Handlers{
		Health: handler.NewHealthHandler(a.cfg.Mode, deps.Checks, a.logger),
	}
	a.serve(ctx, g, h, nil)
}

func (a *App) serve(ctx context.Context, g *errgroup.Group, h server.Handlers, limiter domain.RateLimiter) {
	srv := server.NewServer(server.Config{
		Port:          a.cfg.Server.Port,
		CORSOrigins:   a.cfg.Server.CORSOrigins,
		AdminAPIKey:   a.cfg.Server.AdminAPIKey,
		BidRateLimit:  a.cfg.Bidding.RateLimit,
		BidRateWindow: a.cfg.Bidding.RateWindow.Duration,
	}, h, limiter, a.logger)

	g.Go(func() error {
		if err := srv.Start(); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		timeout := a.cfg.Server.ShutdownTimeout.Duration
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a.logger.Info("HTTP server shutting down", slog.Duration("timeout", timeout))
		return srv.Shutdown(shutCtx)
	})
}
