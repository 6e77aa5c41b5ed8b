package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"taskdeck/internal/config"
)

type keyMap struct {
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	PrevTopic   key.Binding
	NextTopic   key.Binding
	Add         key.Binding
	QuickAdd    key.Binding
	Edit        key.Binding
	Toggle      key.Binding
	Favourite   key.Binding
	Delete      key.Binding
	Expand      key.Binding
	AddTopic    key.Binding
	DeleteTopic key.Binding
	Help        key.Binding
	LogsOlder   key.Binding
	LogsNewer   key.Binding
	Yank        key.Binding

	// text entry
	Confirm key.Binding
	Cancel  key.Binding
	Back    key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:        binding(k.Quit, "quit"),
		Up:          binding(k.Up, "move up"),
		Down:        binding(k.Down, "move down"),
		PrevTopic:   binding(k.PrevTopic, "previous topic"),
		NextTopic:   binding(k.NextTopic, "next topic"),
		Add:         binding(k.Add, "add task"),
		QuickAdd:    binding(k.QuickAdd, "quick add"),
		Edit:        binding(k.Edit, "edit description"),
		Toggle:      binding(k.Toggle, "toggle done"),
		Favourite:   binding(k.Favourite, "toggle favourite"),
		Delete:      binding(k.Delete, "delete task"),
		Expand:      binding(k.Expand, "expand details"),
		AddTopic:    binding(k.AddTopic, "new topic"),
		DeleteTopic: binding(k.DeleteTopic, "delete topic"),
		Help:        binding(k.Help, "help"),
		LogsOlder:   binding(k.LogsOlder, "older logs"),
		LogsNewer:   binding(k.LogsNewer, "newer logs"),
		Yank:        binding(k.Yank, "copy description"),
		Confirm:     binding(k.Confirm, "confirm"),
		Cancel:      binding(k.Cancel, "cancel"),
		Back:        binding(k.Back, "back to name"),
	}
}

func binding(keys []string, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(keys, "/"), desc),
	)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Favourite, k.Delete, k.NextTopic, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevTopic, k.NextTopic, k.Expand},
		{k.Add, k.QuickAdd, k.Edit, k.Toggle, k.Favourite, k.Delete, k.Yank},
		{k.AddTopic, k.DeleteTopic},
		{k.LogsOlder, k.LogsNewer, k.Help, k.Quit},
		{k.Confirm, k.Cancel, k.Back},
	}
}

// inputHelp lists the bindings that apply while text is being typed.
func (k keyMap) inputHelp(twoStep bool) []key.Binding {
	if twoStep {
		return []key.Binding{k.Confirm, k.Back, k.Cancel}
	}
	return []key.Binding{k.Confirm, k.Cancel}
}
