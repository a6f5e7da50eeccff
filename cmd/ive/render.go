package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ive-dev/ive/internal/demo"
	"github.com/ive-dev/ive/pkg/ive"
	"github.com/ive-dev/ive/pkg/snapshot"
)

func renderCmd(dir *string) *cobra.Command {
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Print the HTML snapshot of a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, logger, err := loadConfig(*dir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts := append(cfg.RuntimeOptions(), ive.WithLogger(logger))
			html, err := snapshot.Render(context.Background(), demo.App(cfg.Mount), args[0],
				snapshot.WithRuntimeOptions(opts...),
				snapshot.WithSettle(settle),
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}

	cmd.Flags().DurationVar(&settle, "settle", 200*time.Millisecond, "How long to let asynchronous work finish")

	return cmd
}
