package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"taskdeck/internal/app"
	"taskdeck/internal/storage"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	doneStyle      = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	faintStyle     = lipgloss.NewStyle().Faint(true)
	modeStyle      = lipgloss.NewStyle().Reverse(true).Padding(0, 1)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	popupStyle     = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("99")).Padding(1, 2)
)

func (m Model) View() string {
	if m.app.ShowHelp() {
		return m.renderHelpOverlay()
	}
	switch m.app.Mode() {
	case app.ModeAddingTaskName, app.ModeAddingTaskDescription:
		return m.renderAddPopup()
	}

	sections := []string{
		m.renderTopics(),
		m.renderTasks(),
		m.renderInput(),
		m.renderModeBar(),
		m.renderLogs(),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderTopics() string {
	topics := m.app.Topics()
	if len(topics) == 0 {
		return titleStyle.Render("taskdeck")
	}
	tabs := make([]string, 0, len(topics))
	for i, t := range topics {
		if i == m.app.SelectedTopic() {
			tabs = append(tabs, activeTabStyle.Render(t.Name))
			continue
		}
		tabs = append(tabs, tabStyle.Render(t.Name))
	}
	line := titleStyle.Render("taskdeck") + "  " + strings.Join(tabs, tabStyle.Render(" │ "))
	return ansi.Truncate(line, m.width, "…")
}

func (m Model) renderTasks() string {
	inner := m.width - 4
	tasks := m.app.Tasks()

	var b strings.Builder
	if len(tasks) == 0 {
		if m.app.CurrentTopicIsFavourites() {
			b.WriteString(faintStyle.Render("No favourite tasks. Mark one with f from another topic."))
		} else {
			b.WriteString(faintStyle.Render("No tasks yet. Press a to add one."))
		}
	}
	for i, t := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTaskLine(i, t, inner))
		if m.app.IsExpanded(t.ID) {
			b.WriteString("\n")
			b.WriteString(renderDetails(t, inner))
		}
	}
	return boxStyle.Width(m.width - 2).Render(b.String())
}

func (m Model) renderTaskLine(i int, t storage.Task, width int) string {
	cursor := " "
	if i == m.app.Selected() {
		cursor = ">"
	}
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	star := " "
	if t.Favourite {
		star = "★"
	}

	line := fmt.Sprintf("%s %s %s %s", cursor, check, star, taskTitle(t))
	line = ansi.Truncate(line, width, "…")
	switch {
	case i == m.app.Selected():
		return selectedStyle.Render(line)
	case t.Completed:
		return doneStyle.Render(line)
	}
	return line
}

// taskTitle falls back to the first description line for rows migrated
// from before tasks had names.
func taskTitle(t storage.Task) string {
	if strings.TrimSpace(t.Name) != "" {
		return t.Name
	}
	first, _, _ := strings.Cut(t.Description, "\n")
	return first
}

func renderDetails(t storage.Task, width int) string {
	meta := fmt.Sprintf("id %d · %s · %s · created %s · updated %s",
		t.ID,
		yesNo(t.Completed, "done", "open"),
		yesNo(t.Favourite, "favourite", "not favourite"),
		t.CreatedAt.Format(storage.TimestampLayout),
		t.UpdatedAt.Format(storage.TimestampLayout),
	)
	lines := []string{faintStyle.Render(ansi.Truncate("    "+meta, width, "…"))}
	if body := renderMarkdown(t.Description, width-4); body != "" {
		for _, l := range strings.Split(body, "\n") {
			lines = append(lines, "    "+l)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderInput() string {
	var label string
	switch m.app.Mode() {
	case app.ModeAddingTask:
		label = "New task description"
	case app.ModeEditingTask:
		label = "Edit description"
	case app.ModeAddingTopic:
		label = "New topic name"
	default:
		return m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return label + "\n" + m.inputView(m.app.Input(), true) + "\n" + m.help.ShortHelpView(m.keys.inputHelp(false))
}

func (m Model) inputView(value string, focused bool) string {
	ti := m.input
	ti.SetValue(value)
	ti.CursorEnd()
	if !focused {
		ti.Blur()
	}
	return ti.View()
}

func (m Model) renderModeBar() string {
	bar := modeStyle.Render(m.app.Mode().String())
	if t, ok := m.app.CurrentTopic(); ok {
		bar += " " + faintStyle.Render(fmt.Sprintf("%s · %d tasks", t.Name, len(m.app.Tasks())))
	}
	return bar
}

func (m Model) renderLogs() string {
	window := m.app.Logs().Window(logHeight)
	lines := make([]string, 0, len(window))
	for _, l := range window {
		l = ansi.Truncate(l, m.width, "…")
		switch {
		case strings.Contains(l, "[ERROR]"):
			l = errorStyle.Render(l)
		case strings.Contains(l, "[WARN]"):
			l = warnStyle.Render(l)
		default:
			l = faintStyle.Render(l)
		}
		lines = append(lines, l)
	}
	header := faintStyle.Render("Logs")
	if off := m.app.LogOffset(); off > 0 {
		header += faintStyle.Render(" (+" + strconv.Itoa(off) + " newer)")
	}
	return header + "\n" + strings.Join(lines, "\n")
}

func (m Model) renderAddPopup() string {
	descFocused := m.app.Mode() == app.ModeAddingTaskDescription
	body := strings.Join([]string{
		titleStyle.Render("New task"),
		"",
		fieldLabel("Name", !descFocused),
		m.inputView(m.app.TaskNameInput(), !descFocused),
		"",
		fieldLabel("Description", descFocused),
		m.inputView(m.app.TaskDescriptionInput(), descFocused),
		"",
		m.help.ShortHelpView(m.keys.inputHelp(true)),
	}, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(body))
}

func fieldLabel(name string, active bool) string {
	if active {
		return selectedStyle.Render(name)
	}
	return faintStyle.Render(name)
}

func (m Model) renderHelpOverlay() string {
	groups := m.keys.FullHelp()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for i, group := range groups {
		for _, kb := range group {
			b.WriteString(helpLine(kb))
			b.WriteString("\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("Press " + m.keys.Help.Help().Key + " or " + m.keys.Cancel.Help().Key + " to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(b.String()))
}

func helpLine(kb key.Binding) string {
	h := kb.Help()
	return warnStyle.Width(14).Render(h.Key) + h.Desc
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

func itoa(n int) string { return strconv.Itoa(n) }
