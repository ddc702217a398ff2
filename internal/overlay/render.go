package overlay

import (
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

const renderWidth = 72

var activeWordColors = text.Colors{text.ReverseVideo, text.Bold}

// RenderOptions controls text rendering.
type RenderOptions struct {
	// Color forces ANSI styling on or off. Nil detects a terminal.
	Color *bool
	Width int
}

// Render draws the widget as a framed block. A hidden widget draws nothing.
func (w *Widget) Render(out io.Writer, opts RenderOptions) error {
	st := w.Snapshot()
	if !st.Visible {
		return nil
	}
	color := IsTerminal(out)
	if opts.Color != nil {
		color = *opts.Color
	}
	width := opts.Width
	if width <= 0 {
		width = renderWidth
	}

	tw := table.NewWriter()
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{st.Header})
	if st.Expanded {
		tw.AppendRow(table.Row{controlsLine(st)})
	}
	tw.AppendRow(table.Row{text.WrapSoft(bodyText(st, color), width)})
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 1, WidthMax: width, AlignHeader: text.AlignLeft}})

	_, err := io.WriteString(out, tw.Render()+"\n")
	return err
}

func bodyText(st State, color bool) string {
	if st.Status != "" {
		return st.Status
	}
	if len(st.Words) == 0 {
		return StatusNoPointsArticle
	}
	if !st.Expanded {
		return st.PointText()
	}
	parts := make([]string, len(st.Words))
	for i, word := range st.Words {
		switch {
		case i != st.ActiveWord:
			parts[i] = word
		case color:
			parts[i] = activeWordColors.Sprint(word)
		default:
			parts[i] = "[" + word + "]"
		}
	}
	return strings.Join(parts, " ")
}

func controlsLine(st State) string {
	parts := []string{
		button("◄ Prev", st.PreviousEnabled),
		button(st.PlayLabel, st.PlayEnabled),
		button("Next ►", st.NextEnabled),
	}
	if st.PointIndicator != "" {
		parts = append(parts, st.PointIndicator, st.TimeDisplay)
	}
	check := "[ ]"
	if st.AutoScroll {
		check = "[x]"
	}
	parts = append(parts, check+" Auto-scroll")
	return strings.Join(parts, "  ")
}

func button(label string, enabled bool) string {
	if enabled {
		return label
	}
	return "(" + label + ")"
}

// IsTerminal reports whether w is a terminal device.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
