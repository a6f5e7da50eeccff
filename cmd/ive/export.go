package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ive-dev/ive/internal/demo"
	"github.com/ive-dev/ive/pkg/export"
	"github.com/ive-dev/ive/pkg/ive"
)

func exportCmd(dir *string) *cobra.Command {
	var (
		output string
		bucket string
		all    bool
		settle time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export [paths...]",
		Short: "Write HTML snapshots to a directory or S3",
		Long: `Write HTML snapshots of the given paths, or of export.paths from
the configuration. Each path is written as <path>/index.html.

When a bucket is configured, snapshots are uploaded to S3 using the
credentials in AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  ive export
  ive export /users/1 /users/2 --output=public
  ive export --bucket=my-site`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, logger, err := loadConfig(*dir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Export.Dir = output
			}
			if bucket != "" {
				cfg.Export.Bucket = bucket
			}

			paths := cfg.Export.Paths
			switch {
			case len(args) > 0:
				paths = args
			case all:
				paths = demo.Paths
			}

			var sink export.Sink = export.DirSink{Dir: cfg.Export.Dir}
			target := cfg.Export.Dir
			if cfg.Export.Bucket != "" {
				sink = export.NewS3Sink(export.NewS3Client(cfg.Export.Region), cfg.Export.Bucket, cfg.Export.Prefix)
				target = "s3://" + cfg.Export.Bucket
			}

			exp := export.New(demo.App(cfg.Mount), sink,
				export.WithRuntimeOptions(append(cfg.RuntimeOptions(), ive.WithLogger(logger))...),
				export.WithSettle(settle),
				export.WithLogger(logger),
			)
			results, err := exp.Export(context.Background(), paths)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Exported %d pages to %s", len(results), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "Export every demo page")
	cmd.Flags().DurationVar(&settle, "settle", 200*time.Millisecond, "How long to let asynchronous work finish")

	return cmd
}
