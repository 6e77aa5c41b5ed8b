// Package ui is the Bubble Tea front end. It turns key presses into app
// events and renders the session state.
package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	logHeight     = 5
)

type Model struct {
	ctx    context.Context
	app    *app.App
	keys   keyMap
	help   help.Model
	input  textinput.Model
	width  int
	height int
	clip   func(string) error
	err    error
}

// New builds the model for a. Keys come from the user's keymap.
func New(ctx context.Context, a *app.App, keys config.Keymap) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Width = defaultWidth - 10
	ti.Focus()

	return Model{
		ctx:    ctx,
		app:    a,
		keys:   newKeyMap(keys),
		help:   help.New(),
		input:  ti,
		width:  defaultWidth,
		height: defaultHeight,
		clip:   clipboard.WriteAll,
	}
}

// Run drives the terminal UI until the user quits. A storage failure that
// ends the session is returned.
func Run(ctx context.Context, a *app.App, cfg config.Config) error {
	program := tea.NewProgram(New(ctx, a, cfg.Keys), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

// Err is the fatal error that ended the session, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 10
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		// cursor blink ticks
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.app.Mode() == app.ModeNormal {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Yank):
			m.yank()
			return m, nil
		}
	}

	for _, ev := range m.events(msg) {
		if err := m.app.Handle(m.ctx, ev); err != nil && app.IsFatal(err) {
			m.err = err
			return m, tea.Quit
		}
	}
	return m, nil
}

// events maps a key press to the app events it stands for in the current
// mode. Pasted text arrives as one message carrying several runes.
func (m Model) events(msg tea.KeyMsg) []app.Event {
	mode := m.app.Mode()
	switch {
	case mode == app.ModeHelp:
		switch {
		case key.Matches(msg, m.keys.Help):
			return []app.Event{app.Key(app.EventHelp)}
		case key.Matches(msg, m.keys.Cancel):
			return []app.Event{app.Key(app.EventCancel)}
		case key.Matches(msg, m.keys.Confirm):
			return []app.Event{app.Key(app.EventCommit)}
		}
		return nil

	case mode.TextEntry():
		switch {
		case key.Matches(msg, m.keys.Confirm):
			return []app.Event{app.Key(app.EventCommit)}
		case key.Matches(msg, m.keys.Cancel):
			return []app.Event{app.Key(app.EventCancel)}
		case key.Matches(msg, m.keys.Back):
			return []app.Event{app.Key(app.EventBack)}
		}
		switch msg.Type {
		case tea.KeyBackspace:
			return []app.Event{app.Key(app.EventBackspace)}
		case tea.KeySpace:
			return []app.Event{app.Rune(' ')}
		case tea.KeyRunes:
			evs := make([]app.Event, 0, len(msg.Runes))
			for _, r := range msg.Runes {
				evs = append(evs, app.Rune(r))
			}
			return evs
		}
		return nil
	}

	normal := []struct {
		binding key.Binding
		kind    app.EventKind
	}{
		{m.keys.Up, app.EventUp},
		{m.keys.Down, app.EventDown},
		{m.keys.PrevTopic, app.EventLeft},
		{m.keys.NextTopic, app.EventRight},
		{m.keys.Expand, app.EventCommit},
		{m.keys.Add, app.EventAddTask},
		{m.keys.QuickAdd, app.EventQuickAddTask},
		{m.keys.Edit, app.EventEditTask},
		{m.keys.AddTopic, app.EventAddTopic},
		{m.keys.Delete, app.EventDeleteTask},
		{m.keys.DeleteTopic, app.EventDeleteTopic},
		{m.keys.Toggle, app.EventToggleComplete},
		{m.keys.Favourite, app.EventToggleFavourite},
		{m.keys.Help, app.EventHelp},
		{m.keys.LogsOlder, app.EventLogsOlder},
		{m.keys.LogsNewer, app.EventLogsNewer},
	}
	for _, n := range normal {
		if key.Matches(msg, n.binding) {
			return []app.Event{app.Key(n.kind)}
		}
	}
	return nil
}

func (m Model) yank() {
	task, ok := m.app.SelectedTask()
	if !ok {
		return
	}
	if err := m.clip(task.Description); err != nil {
		m.app.Record(slog.LevelWarn, fmt.Sprintf("Failed to copy task id %d: %v", task.ID, err))
		return
	}
	m.app.Record(slog.LevelInfo, fmt.Sprintf("Copied task id: %d", task.ID))
}
