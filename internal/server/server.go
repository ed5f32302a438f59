// Package server exposes the bidding, order and admin operations over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/auctionhouse/internal/domain"
	"github.com/alanyoungcy/auctionhouse/internal/server/handler"
	"github.com/alanyoungcy/auctionhouse/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	// AdminAPIKey guards /api/admin; empty disables those routes.
	AdminAPIKey string
	// BidRateLimit requests per BidRateWindow per user on bid endpoints.
	// Zero disables limiting.
	BidRateLimit  int
	BidRateWindow time.Duration
}

// Handlers aggregates the HTTP handlers the server registers. Auctions and
// Orders may be nil in a process that only runs the finalizer.
type Handlers struct {
	Health   *handler.HealthHandler
	Auctions *handler.AuctionHandler
	Orders   *handler.OrderHandler
	Admin    *handler.AdminHandler
}

// Server is the JSON API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a Server with every route registered. limiter may be nil,
// in which case bid endpoints are not rate limited.
func NewServer(cfg Config, h Handlers, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	logger = logger.With(slog.String("component", "http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           Routes(cfg, h, limiter, logger),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{httpServer: srv, logger: logger}
}

// Routes builds the full handler tree including middleware.
func Routes(cfg Config, h Handlers, limiter domain.RateLimiter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.Health.HealthCheck)

	if h.Auctions != nil {
		bidLimit := middleware.RateLimit(limiter, "bid", cfg.BidRateLimit, cfg.BidRateWindow, logger)
		limited := func(fn http.HandlerFunc) http.Handler { return bidLimit(fn) }

		mux.HandleFunc("GET /api/auctions/{id}", h.Auctions.GetAuction)
		mux.HandleFunc("GET /api/auctions/{id}/bids", h.Auctions.BidHistory)
		mux.Handle("POST /api/auctions/{id}/bids", limited(h.Auctions.PlaceBid))
		mux.Handle("POST /api/auctions/{id}/proxy-bids", limited(h.Auctions.RegisterProxyBid))
		mux.Handle("POST /api/auctions/{id}/buy-now", limited(h.Auctions.BuyNow))
		mux.HandleFunc("POST /api/auctions/{id}/rejections", h.Auctions.RejectBidder)
	}

	if h.Orders != nil {
		mux.HandleFunc("GET /api/orders", h.Orders.ListOrders)
		mux.HandleFunc("GET /api/orders/{id}", h.Orders.GetOrder)
		mux.HandleFunc("POST /api/orders/{id}/transitions", h.Orders.Transition)
		mux.HandleFunc("POST /api/orders/{id}/cancel", h.Orders.Cancel)
		mux.HandleFunc("POST /api/orders/{id}/ratings", h.Orders.Rate)
	}

	if h.Admin != nil {
		admin := middleware.AdminKey(cfg.AdminAPIKey)
		mux.Handle("POST /api/admin/finalize", admin(http.HandlerFunc(h.Admin.Finalize)))
		mux.Handle("POST /api/admin/auctions/{id}/remove", admin(http.HandlerFunc(h.Admin.RemoveAuction)))
	}

	var out http.Handler = mux
	out = middleware.Logging(logger)(out)
	out = middleware.Identity()(out)
	out = middleware.CORS(cfg.CORSOrigins)(out)
	return out
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
