package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"readaloud/internal/host"
	"readaloud/internal/overlay"
	"readaloud/internal/page"
	"readaloud/internal/settings"
)

func newOpenCommand(ctx *commandContext) *cobra.Command {
	var backendName string
	var clicks int
	var dump bool

	cmd := &cobra.Command{
		Use:   "open <file|url>",
		Short: "Simulate clicking the toolbar action on a page",
		Long: `Loads the page into a tab and clicks the readaloud action. The first
click injects the player and loads the summary; later clicks toggle the
player's visibility.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if clicks < 1 {
				return fmt.Errorf("--clicks must be at least 1")
			}
			doc, err := loadPage(cmd.Context(), args[0], ctx.httpClient())
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

			opts := overlayOptions(cfg, ctx, store)
			h := host.New(func(d *page.Document) *overlay.Controller {
				return overlay.NewController(d, backend, opts)
			}, backend, cfg.Player.ContainerID, ctx.cliLogger())
			tab := h.OpenTab(doc)
			defer h.CloseTab(tab.ID)

			out := cmd.OutOrStdout()
			for i := 1; i <= clicks; i++ {
				resp, err := h.ActionClicked(cmd.Context(), tab.ID)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("click %d: %s", i, resp.Status)
				if resp.NowVisible != nil {
					line += fmt.Sprintf(" (visible: %s)", yesNo(*resp.NowVisible))
				}
				fmt.Fprintln(out, line)
			}
			if injected := tab.Injected(); len(injected) > 0 {
				fmt.Fprintf(out, "injected: %s\n", strings.Join(injected, ", "))
			}

			if ctrl := h.Controller(tab.ID); ctrl != nil {
				off := false
				if err := ctrl.Widget().Render(out, overlay.RenderOptions{Color: &off}); err != nil {
					return err
				}
			}
			if dump {
				return doc.Render(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backendName, "backend", backendLocal, "Summary provider: local, ipc or http")
	cmd.Flags().IntVar(&clicks, "clicks", 1, "Number of times to click the action")
	cmd.Flags().BoolVar(&dump, "dump", false, "Print the resulting page markup")
	return cmd
}
