package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"readaloud/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change persisted player settings",
	}
	settingsCmd.AddCommand(newSettingsListCommand(ctx))
	settingsCmd.AddCommand(newSettingsGetCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	return settingsCmd
}

func withSettings(ctx *commandContext, fn func(*settings.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := settings.Open(cfg)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newSettingsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(ctx, func(store *settings.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "No settings stored")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					updated := "-"
					if !e.UpdatedAt.IsZero() {
						updated = e.UpdatedAt.Local().Format(time.DateTime)
					}
					rows = append(rows, []string{e.Key, e.Value, updated})
				}
				fmt.Fprintln(out, renderTable([]string{"Key", "Value", "Updated"}, rows, nil))
				return nil
			})
		},
	}
}

func newSettingsGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(ctx, func(store *settings.Store) error {
				key := args[0]
				if key == settings.KeyAutoScroll {
					enabled, err := store.AutoScrollEnabled(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(enabled))
					return nil
				}
				value, ok, err := store.Get(cmd.Context(), key)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("setting %q is not set", key)
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettings(ctx, func(store *settings.Store) error {
				key, value := args[0], args[1]
				if key == settings.KeyAutoScroll {
					enabled, err := strconv.ParseBool(value)
					if err != nil {
						return fmt.Errorf("%s expects true or false: %w", key, err)
					}
					if err := store.SetAutoScrollEnabled(cmd.Context(), enabled); err != nil {
						return err
					}
				} else if err := store.Set(cmd.Context(), key, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
				return nil
			})
		},
	}
}
