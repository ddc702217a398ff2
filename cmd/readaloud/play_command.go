package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"readaloud/internal/overlay"
	"readaloud/internal/settings"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var backendName string
	var auto bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "play <file|url>",
		Short: "Open the summary player for a page in the terminal",
		Long: `Extracts the article, requests its summary and shows the player.

Keys: enter or space toggles play/pause, n and b move between points,
e expands or collapses the player, s toggles auto-scroll, h hides or
shows the player and q quits. With --auto playback starts at once and the command exits after
the last point.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			doc, err := loadPage(runCtx, args[0], ctx.httpClient())
			if err != nil {
				return err
			}
			backend, release, err := ctx.backend(backendName)
			if err != nil {
				return err
			}
			defer release()

			store, err := settings.Open(cfg)
			if err != nil {
				return fmt.Errorf("open settings: %w", err)
			}
			defer store.Close()

			ctrl := overlay.NewController(doc, backend, overlayOptions(cfg, ctx, store))
			defer ctrl.Teardown()

			var color *bool
			if noColor {
				off := false
				color = &off
			}
			model := newPlayerModel(runCtx, ctrl, color, auto)
			final, err := runPlayer(runCtx, model, cmd.InOrStdin(), cmd.OutOrStdout())
			if final.quitting && final.err == nil {
				ctrl.Close()
			}
			return err
		},
	}
	cmd.Flags().StringVar(&backendName, "backend", backendLocal, "Summary provider: local, ipc or http")
	cmd.Flags().BoolVar(&auto, "auto", false, "Start playback immediately and exit when it ends")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable ANSI styling of the active word")
	return cmd
}
