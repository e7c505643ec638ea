package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"optipress/internal/codec"
	"optipress/internal/logging"
	"optipress/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the source tree and optimize changed images",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			p := pipeline.New(cfg, codec.NewWebP(), logger)
			report, err := p.Run(signalCtx, pipeline.Options{DryRun: dryRun})
			if err != nil {
				return err
			}

			// Per-image failures are rendered in the report but do not fail
			// the process; only setup and persistence errors exit non-zero.
			out := cmd.OutOrStdout()
			renderReport(out, report, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Diff without encoding or writing anything")
	return cmd
}
