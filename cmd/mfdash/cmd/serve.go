package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/youssefsiam38/mfdash"
	"github.com/youssefsiam38/mfdash/internal/logging"
	"github.com/youssefsiam38/mfdash/internal/metrics"
	"github.com/youssefsiam38/mfdash/modelfactory"
	"github.com/youssefsiam38/mfdash/ui"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *mfdash.Config) error {
	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	entry := logger.WithField("component", "mfdash")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	backend, err := modelfactory.New(cfg.FrontendEndpoint(),
		modelfactory.WithTimeout(cfg.RequestTimeout),
		modelfactory.WithLogger(logging.Adapt(entry.WithField("component", "modelfactory"))),
		modelfactory.WithObserver(m),
	)
	if err != nil {
		return err
	}

	handler := ui.UIHandler(backend, &ui.Config{
		FrontendEndpoint: backend.Endpoint(),
		BasePath:         cfg.BasePath,
		ReadOnly:         cfg.ReadOnly,
		Logger:           logging.Adapt(entry.WithField("component", "ui")),
		Observer:         m,
		RefreshInterval:  cfg.RefreshInterval,
		CacheTTL:         cfg.CacheTTL,
		PageSize:         cfg.PageSize,
	})
	if cfg.BasePath != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.BasePath+"/", http.StripPrefix(cfg.BasePath, handler))
		mux.Handle(cfg.BasePath, http.RedirectHandler(cfg.BasePath+"/", http.StatusMovedPermanently))
		handler = mux
	}

	servers := []*http.Server{{Addr: cfg.ListenAddr, Handler: handler}}
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		servers = append(servers, &http.Server{Addr: cfg.MetricsAddr, Handler: mux})
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			entry.WithField("addr", srv.Addr).Info("listening")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		entry.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		entry.WithError(err).Error("server stopped")
		return err
	}
	entry.Info("server stopped")
	return nil
}
