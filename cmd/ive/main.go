package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ive-dev/ive/internal/config"
	"github.com/ive-dev/ive/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "ive",
		Short: "Preview and export ive applications",
		Long: `ive renders a reactive DOM application in-process.

Commands:
  • serve   live preview over HTTP and WebSocket
  • render  print the HTML snapshot of one location
  • export  write snapshots to a directory or S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "Directory containing ive.json or ive.yaml")

	cmd.AddCommand(
		serveCmd(&dir),
		renderCmd(&dir),
		exportCmd(&dir),
		versionCmd(),
	)
	return cmd
}

// loadConfig loads the configuration and builds the logger it names.
func loadConfig(dir string, stderr io.Writer) (*config.Config, *slog.LevelVar, *slog.Logger, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return cfg, level, logger, nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
