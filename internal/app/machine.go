package app

import (
	"context"
	"strings"
)

// Handle applies ev to the current mode. It returns the error of any
// operation the event triggered; that error has already been logged.
func (a *App) Handle(ctx context.Context, ev Event) error {
	switch {
	case a.mode == ModeNormal:
		return a.handleNormal(ctx, ev)
	case a.mode == ModeHelp:
		a.handleHelp(ev)
		return nil
	case a.mode.TextEntry():
		return a.handleText(ctx, ev)
	}
	return nil
}

func (a *App) handleNormal(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventUp:
		a.MoveUp()
	case EventDown:
		a.MoveDown()
	case EventLeft:
		if a.selectedTopic > 0 {
			return a.SelectTopic(ctx, a.selectedTopic-1)
		}
	case EventRight:
		if a.selectedTopic < len(a.topics)-1 {
			return a.SelectTopic(ctx, a.selectedTopic+1)
		}
	case EventCommit:
		a.ToggleExpanded()
	case EventAddTask:
		if !a.CurrentTopicIsFavourites() {
			a.resetInput()
			a.mode = ModeAddingTaskName
		}
	case EventQuickAddTask:
		if !a.CurrentTopicIsFavourites() {
			a.resetInput()
			a.mode = ModeAddingTask
		}
	case EventEditTask:
		if task, ok := a.SelectedTask(); ok {
			a.resetInput()
			a.input = task.Description
			a.mode = ModeEditingTask
		}
	case EventAddTopic:
		a.resetInput()
		a.mode = ModeAddingTopic
	case EventDeleteTask:
		return a.DeleteTask(ctx)
	case EventDeleteTopic:
		if !a.CurrentTopicIsSpecial() {
			return a.DeleteTopic(ctx)
		}
	case EventToggleComplete:
		return a.ToggleTask(ctx)
	case EventToggleFavourite:
		return a.ToggleFavourite(ctx)
	case EventHelp:
		a.mode = ModeHelp
		a.showHelp = true
	case EventLogsOlder:
		a.ScrollLogsOlder()
	case EventLogsNewer:
		a.ScrollLogsNewer()
	}
	return nil
}

func (a *App) handleHelp(ev Event) {
	switch ev.Kind {
	case EventHelp, EventCancel, EventCommit:
		a.mode = ModeNormal
		a.showHelp = false
	}
}

func (a *App) handleText(ctx context.Context, ev Event) error {
	switch ev.Kind {
	case EventCancel:
		a.resetInput()
		a.mode = ModeNormal
	case EventBack:
		if a.mode == ModeAddingTaskDescription {
			a.mode = ModeAddingTaskName
		}
	case EventRune:
		buf := a.activeBuffer()
		*buf += string(ev.Rune)
	case EventBackspace:
		buf := a.activeBuffer()
		if r := []rune(*buf); len(r) > 0 {
			*buf = string(r[:len(r)-1])
		}
	case EventCommit:
		return a.commit(ctx)
	}
	return nil
}

func (a *App) commit(ctx context.Context) error {
	if a.mode == ModeAddingTaskName {
		if blank(a.taskName) {
			return nil
		}
		a.mode = ModeAddingTaskDescription
		return nil
	}

	var op func() error
	switch a.mode {
	case ModeAddingTask:
		if blank(a.input) {
			return nil
		}
		op = func() error { return a.AddTask(ctx, a.input) }
	case ModeEditingTask:
		if blank(a.input) {
			return nil
		}
		op = func() error { return a.EditTask(ctx, a.input) }
	case ModeAddingTopic:
		if blank(a.input) {
			return nil
		}
		op = func() error { return a.AddTopic(ctx, a.input) }
	case ModeAddingTaskDescription:
		if blank(a.taskName) {
			return nil
		}
		op = func() error { return a.AddTaskWithDetails(ctx, a.taskName, a.taskDescription) }
	default:
		return nil
	}

	err := op()
	a.resetInput()
	a.mode = ModeNormal
	return err
}

func (a *App) activeBuffer() *string {
	switch a.mode {
	case ModeAddingTaskName:
		return &a.taskName
	case ModeAddingTaskDescription:
		return &a.taskDescription
	default:
		return &a.input
	}
}

func (a *App) resetInput() {
	a.input = ""
	a.taskName = ""
	a.taskDescription = ""
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
