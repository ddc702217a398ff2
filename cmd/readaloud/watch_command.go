package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"readaloud/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Summarise HTML pages dropped into the inbox directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.Paths.InboxDir
			}
			gen, err := ctx.localGenerator()
			if err != nil {
				return err
			}
			logger := ctx.cliLogger()
			summarizer := watcher.NewSummarizer(gen, logger)
			w, err := watcher.New(dir, summarizer.Handle, watcher.Options{
				SettleDelay:   cfg.WatchSettleDelay(),
				MaxConcurrent: cfg.Watch.MaxConcurrent,
				Logger:        logger,
			})
			if err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			defer w.Close()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", dir)
			if err := w.Run(runCtx); err != nil && runCtx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to watch (defaults to paths.inbox_dir)")
	return cmd
}
