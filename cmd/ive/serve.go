package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"golang.org/x/sync/errgroup"

	"github.com/ive-dev/ive/internal/config"
	"github.com/ive-dev/ive/internal/demo"
	"github.com/ive-dev/ive/pkg/devserver"
)

func serveCmd(dir *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the live preview server",
		Long: `Start the live preview server.

Every page is rendered on request. The browser then connects over
WebSocket and clicks and navigations run in a runtime on the server.
Editing the configuration file reloads connected browsers.

Examples:
  ive serve
  ive serve --addr=:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, *dir, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, dir, addr string) error {
	out := cmd.OutOrStdout()
	cfg, level, logger, err := loadConfig(dir, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	srv := devserver.New(demo.App(cfg.Mount), devserver.Config{
		Addr:      cfg.Server.Addr,
		LiveRate:  cfg.Server.LiveRate,
		LiveBurst: cfg.Server.LiveBurst,
		Settle:    100 * time.Millisecond,
		Runtime:   cfg.RuntimeOptions(),
		Logger:    logger,
	})

	success(out, "Serving on http://%s", cfg.Server.Addr)
	info(out, "mount %s, markers %s, notify %s", cfg.Mount, cfg.MarkerPolicy, cfg.Notify)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	if path := cfg.Path(); path != "" {
		stop := hookReload(out, logger, srv)
		defer stop()
		g.Go(func() error {
			return config.Watch(ctx, path, func(c *config.Config) {
				level.Set(c.SlogLevel())
				srv.SetRuntimeOptions(c.RuntimeOptions())
				srv.NotifyReload()
			}, nil)
		})
	}
	return g.Wait()
}

// hookReload reports configuration reloads from the watch signals.
func hookReload(out io.Writer, logger *slog.Logger, srv *devserver.Server) (stop func()) {
	reloaded := capitan.Hook(config.Reloaded, func(_ context.Context, e *capitan.Event) {
		path, _ := config.KeyPath.From(e)
		success(out, "Reloaded %s (%d browsers)", path, srv.ClientCount())
	})
	failed := capitan.Hook(config.ReloadFailed, func(_ context.Context, e *capitan.Event) {
		path, _ := config.KeyPath.From(e)
		msg, _ := config.KeyError.From(e)
		logger.Warn("config reload failed", "path", path, "error", msg)
	})
	return func() {
		reloaded.Close()
		failed.Close()
	}
}
