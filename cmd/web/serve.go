package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Bahjat/page-insight-tool/web/internal/insight"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/config"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/logger"
	"github.com/Bahjat/page-insight-tool/web/internal/platform/middleware"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	service := newService(cfg, log)

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Info("server starting", "addr", ln.Addr().String(), "backend_origin", config.BackendOrigin())
	return serve(cmd.Context(), ln, newHandler(cfg, service, log), cfg.ShutdownTimeout)
}

// newHandler builds the routed, middleware-wrapped handler.
func newHandler(cfg config.Config, service *insight.Service, log *slog.Logger) http.Handler {
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)

	mux := http.NewServeMux()
	insight.NewTransport(service, log).RegisterRoutes(mux, limiter.Middleware)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(log),
		middleware.SecurityHeaders,
	)
}

// serve runs the server on ln until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func serve(ctx context.Context, ln net.Listener, h http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
