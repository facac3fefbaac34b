package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/okian/healthui/internal/adapters/fetcher"
	"github.com/okian/healthui/internal/adapters/http/api"
	"github.com/okian/healthui/internal/adapters/http/site"
	"github.com/okian/healthui/internal/adapters/http/swagger"
	"github.com/okian/healthui/internal/adapters/mq/broadcast"
	"github.com/okian/healthui/internal/adapters/settingsstore"
	service "github.com/okian/healthui/internal/app"
	"github.com/okian/healthui/internal/domain/render"
	"github.com/okian/healthui/pkg/logger"
	"github.com/okian/healthui/pkg/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants. WriteTimeout stays unset so the view stream
// is not cut off.
const (
	readTimeout           = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, its API and the view stream",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				c.cfg.Addr = addr
			}
			return c.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "override addr")
	return cmd
}

// app is the wired dashboard process.
type app struct {
	store settingsstore.Store
	hub   *broadcast.Hub[render.View]
	svc   *service.Service
	mux   *http.ServeMux
}

func (c *cli) newApp(ctx context.Context) (*app, error) {
	metrics.Configure(
		metrics.WithMetricsEnabled(c.cfg.MetricsEnabled),
		metrics.WithRefreshInterval(c.cfg.MetricsRefresh()),
	)

	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(
		fetcher.WithBaseURL(c.cfg.BaseURLFor()),
		fetcher.WithTimeout(c.cfg.FetchTimeout()),
		fetcher.WithLogger(c.log.Named("fetcher")),
	)
	hub := broadcast.New[render.View](broadcast.WithBufferSize(c.cfg.StreamBuffer))
	svc := service.New(store, f,
		service.WithLogger(c.log.Named("poller")),
		service.WithDefaults(c.cfg.Defaults()),
		service.WithPublisher(hub),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, hub, api.WithLogger(c.log.Named("api"))).Register(ctx, mux)

	return &app{store: store, hub: hub, svc: svc, mux: mux}, nil
}

func (c *cli) serve(ctx context.Context) error {
	a, err := c.newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.store.Close(); err != nil {
			c.log.Warn(ctx, "settings store close failed", logger.Error(err))
		}
	}()

	ln, err := net.Listen("tcp", c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", c.cfg.Addr, err)
	}
	return a.run(ctx, ln, c.log)
}

// run serves on ln until ctx is cancelled or a component fails.
func (a *app) run(ctx context.Context, ln net.Listener, log logger.Logger) error {
	srv := &http.Server{
		Handler:           a.mux,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	eg, egCtx := errgroup.WithContext(ctx)

	if err := a.svc.Start(egCtx); err != nil {
		return fmt.Errorf("failed to start poller: %w", err)
	}

	eg.Go(func() error {
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		startSystemMetricsUpdater(egCtx)
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		log.Info(ctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		// Closing the hub ends open streams so Shutdown does not wait on them.
		_ = a.hub.Close()
		err := errors.Join(srv.Shutdown(shutdownCtx), a.svc.Close(shutdownCtx))
		log.Info(ctx, "server stopped")
		return err
	})

	return eg.Wait()
}

// startSystemMetricsUpdater refreshes process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
