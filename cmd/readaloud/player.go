package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"readaloud/internal/config"
	"readaloud/internal/locator"
	"readaloud/internal/overlay"
	"readaloud/internal/playback"
)

const playerHelp = "[enter] play/pause  [n]ext  [b]ack  [e]xpand  [s]croll  [h]ide  [q]uit"

// overlayOptions maps configuration onto controller options.
func overlayOptions(cfg *config.Config, ctx *commandContext, prefs overlay.Preferences) overlay.Options {
	logger := ctx.cliLogger()
	return overlay.Options{
		ContainerID:     cfg.Player.ContainerID,
		HighlightClass:  cfg.Player.HighlightClass,
		HighlightHold:   cfg.HighlightHold(),
		LengthTolerance: cfg.Player.LocatorLengthTolerance,
		Scroller:        locator.LogScroller{Logger: logger},
		Preferences:     prefs,
		Logger:          logger,
	}
}

type initDoneMsg struct {
	err error
}

type widgetChangedMsg struct{}

// playerModel drives a controller from key presses and redraws the widget
// whenever it signals a change.
type playerModel struct {
	ctx     context.Context
	ctrl    *overlay.Controller
	render  overlay.RenderOptions
	spinner spinner.Model

	auto     bool
	loading  bool
	started  bool
	quitting bool
	pending  []tea.KeyMsg
	note     string
	err      error
}

func newPlayerModel(ctx context.Context, ctrl *overlay.Controller, color *bool, auto bool) playerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return playerModel{
		ctx:     ctx,
		ctrl:    ctrl,
		render:  overlay.RenderOptions{Color: color},
		spinner: s,
		auto:    auto,
		loading: true,
	}
}

func (m playerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.initController(), m.waitForChange())
}

func (m playerModel) initController() tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: m.ctrl.Init(m.ctx)}
	}
}

func (m playerModel) waitForChange() tea.Cmd {
	changed := m.ctrl.Widget().Changed()
	return func() tea.Msg {
		select {
		case <-changed:
			return widgetChangedMsg{}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case initDoneMsg:
		return m.initDone(msg.err)
	case widgetChangedMsg:
		if m.auto && !m.loading && m.finished() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.waitForChange()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.loading {
			m.pending = append(m.pending, msg)
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m playerModel) initDone(err error) (tea.Model, tea.Cmd) {
	m.loading = false
	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	if !m.ctrl.Widget().Snapshot().PlayEnabled {
		m.quitting = true
		return m, tea.Quit
	}
	m.ctrl.HoverIn()
	if m.auto {
		m.ctrl.TogglePlayPause()
		m.started = m.ctrl.Scheduler().Cursor().State == playback.Playing
	}

	var model tea.Model = m
	var cmds []tea.Cmd
	for _, key := range m.pending {
		var cmd tea.Cmd
		model, cmd = model.(playerModel).handleKey(key)
		cmds = append(cmds, cmd)
		if model.(playerModel).quitting {
			break
		}
	}
	next := model.(playerModel)
	next.pending = nil
	return next, tea.Batch(cmds...)
}

func (m playerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.note = ""
	switch msg.String() {
	case "enter", " ", "p":
		m.ctrl.TogglePlayPause()
	case "n", "right":
		m.ctrl.Next()
	case "b", "left":
		m.ctrl.Previous()
	case "e", "tab":
		if m.ctrl.Widget().Snapshot().Expanded {
			m.ctrl.HoverOut()
		} else {
			m.ctrl.HoverIn()
		}
	case "s":
		enabled := !m.ctrl.Widget().Snapshot().AutoScroll
		if err := m.ctrl.SetAutoScroll(m.ctx, enabled); err != nil {
			m.note = fmt.Sprintf("warn: %v", err)
		}
	case "h":
		if _, err := m.ctrl.TogglePlayer(m.ctx); err != nil {
			m.note = fmt.Sprintf("warn: %v", err)
		} else if !m.ctrl.Widget().Visible() {
			m.note = "Player hidden. [h] to show, [q] to quit."
		}
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m playerModel) finished() bool {
	cur := m.ctrl.Scheduler().Cursor()
	if cur.State == playback.Playing {
		return false
	}
	if !m.ctrl.Widget().Snapshot().PlayEnabled {
		return true
	}
	return m.started
}

func (m playerModel) View() string {
	var b strings.Builder
	if m.loading {
		status := m.ctrl.Widget().Snapshot().Status
		if status == "" {
			status = overlay.StatusExtracting
		}
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), status)
		return b.String()
	}
	if err := m.ctrl.Widget().Render(&b, m.render); err != nil {
		fmt.Fprintf(&b, "warn: render player: %v\n", err)
	}
	if m.ctrl.Widget().Visible() && !m.auto && !m.quitting {
		b.WriteString(playerHelp + "\n")
	}
	if m.note != "" {
		b.WriteString(m.note + "\n")
	}
	return b.String()
}

// runPlayer runs the model until quit. Output that is not a terminal gets the
// final frame only.
func runPlayer(ctx context.Context, m playerModel, in io.Reader, out io.Writer) (playerModel, error) {
	tty := overlay.IsTerminal(out)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out)}
	if !tty {
		opts = append(opts, tea.WithoutRenderer())
	}

	final, err := tea.NewProgram(m, opts...).Run()
	result, ok := final.(playerModel)
	if !ok {
		result = m
	}
	if !tty {
		fmt.Fprint(out, result.View())
	}
	if err != nil {
		return result, err
	}
	return result, result.err
}
