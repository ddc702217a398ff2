package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"readaloud/internal/api"
	"readaloud/internal/extract"
	"readaloud/internal/summary"
	"readaloud/internal/textutil"
)

func newSummarizeCommand(ctx *commandContext) *cobra.Command {
	var format string
	var backendName string

	cmd := &cobra.Command{
		Use:   "summarize <file|url>",
		Short: "Extract an article and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := validateFormat(format)
			if err != nil {
				return err
			}
			sum, err := summarizeTarget(cmd.Context(), ctx, args[0], backendName)
			if err != nil {
				return err
			}
			switch format {
			case formatJSON:
				return writeJSON(cmd, sum)
			case formatYAML:
				return writeYAML(cmd, sum)
			}
			printSummaryTable(cmd, sum)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	cmd.Flags().StringVar(&backendName, "backend", backendLocal, "Summary provider: local, ipc or http")
	return cmd
}

func summarizeTarget(cmdCtx context.Context, ctx *commandContext, target, backendName string) (summary.Summary, error) {
	doc, err := loadPage(cmdCtx, target, ctx.httpClient())
	if err != nil {
		return summary.Summary{}, err
	}
	article, err := extract.Extract(doc, extract.Options{})
	if err != nil {
		return summary.Summary{}, err
	}
	backend, release, err := ctx.backend(backendName)
	if err != nil {
		return summary.Summary{}, err
	}
	defer release()

	resp, err := backend.ProcessPage(cmdCtx, api.ProcessPageRequest{
		Action:  api.ActionProcessPage,
		Article: api.ArticlePayload{Title: article.Title, Content: article.Content},
	})
	if err != nil {
		return summary.Summary{}, err
	}
	return resp.Summary()
}

func printSummaryTable(cmd *cobra.Command, sum summary.Summary) {
	out := cmd.OutOrStdout()
	title := sum.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(out, "%s\n", title)
	if sum.Empty() {
		fmt.Fprintln(out, "No summary points.")
		return
	}
	rows := make([][]string, 0, len(sum.Points))
	for i, p := range sum.Points {
		text, cut := textutil.Truncate(p.Text, 60)
		if cut {
			text += "..."
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			summary.FormatClock(p.Duration),
			fmt.Sprintf("%d", len(p.WordTimings)),
			text,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Duration", "Words", "Point"}, rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft}))
	fmt.Fprintf(out, "Total: %s\n", summary.FormatClock(sum.TotalDuration()))
}
