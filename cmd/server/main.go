package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger/internal/clock"
	"ledger/internal/config"
	"ledger/internal/ledger"
	"ledger/internal/loader"
	"ledger/internal/logging"
	"ledger/internal/serverapp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type flags struct {
	configPath string
	addr       string
	source     string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Serve the directive ledger dashboard",
		Long: `ledger loads the directives document once at startup and serves the
dashboard: pending directives soonest first, the archives newest first, and the
JSON generator for hand-authoring new records.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log, f.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, nil)
		},
	}
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "ledger.yml", "path to the YAML config file")
	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&f.source, "source", "", "directives document path or URL (overrides config)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

func loadConfig(f flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.source != "" {
		cfg.Source.Location = f.source
	}
	return cfg, nil
}

// serve loads the ledger once, then serves until ctx is cancelled. When ready
// is non-nil it receives the bound listener address.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, ready chan<- string) error {
	ld := loader.New(cfg.Source.Location)
	loadCtx := ctx
	if cfg.Source.Timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, cfg.Source.Timeout)
		defer cancel()
	}

	clk := clock.RealClock{}
	l := ledger.Load(loadCtx, ld, clk.Now)
	if err := l.Err(); err != nil {
		logger.Error("directives load failed", zap.String("source", ld.Source), zap.Error(err))
	} else {
		logger.Info("directives loaded",
			zap.String("source", ld.Source),
			zap.Int("total", l.Len()),
			zap.Int("pending", len(l.Pending())),
			zap.Int("archived", len(l.Archived())),
		)
	}

	sourceFile := ""
	if !ld.IsURL() {
		sourceFile = ld.Source
	}
	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:     cfg,
		Ledger:     l,
		SourceFile: sourceFile,
		Clock:      clk,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", "http://"+ln.Addr().String()))
		if ready != nil {
			ready <- ln.Addr().String()
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
