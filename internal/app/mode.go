package app

import "fmt"

// Mode is the input mode of the session. It decides how events are read.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddingTask
	ModeAddingTaskName
	ModeAddingTaskDescription
	ModeEditingTask
	ModeAddingTopic
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal Mode"
	case ModeAddingTask:
		return "Add Mode"
	case ModeAddingTaskName:
		return "Adding Task - Name Input"
	case ModeAddingTaskDescription:
		return "Adding Task - Description Input"
	case ModeEditingTask:
		return "Editing Mode"
	case ModeAddingTopic:
		return "Adding Topic"
	case ModeHelp:
		return "Viewing Help"
	default:
		return "Unknown Mode"
	}
}

// TextEntry reports whether the mode collects typed text.
func (m Mode) TextEntry() bool {
	switch m {
	case ModeAddingTask, ModeAddingTaskName, ModeAddingTaskDescription, ModeEditingTask, ModeAddingTopic:
		return true
	}
	return false
}

type EventKind int

const (
	EventCancel EventKind = iota
	EventCommit
	EventBack
	EventRune
	EventBackspace
	EventUp
	EventDown
	EventLeft
	EventRight
	EventAddTask
	EventQuickAddTask
	EventEditTask
	EventAddTopic
	EventDeleteTask
	EventDeleteTopic
	EventToggleComplete
	EventToggleFavourite
	EventHelp
	EventLogsOlder
	EventLogsNewer
)

func (k EventKind) String() string {
	switch k {
	case EventCancel:
		return "cancel"
	case EventCommit:
		return "commit"
	case EventBack:
		return "back"
	case EventRune:
		return "rune"
	case EventBackspace:
		return "backspace"
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventLeft:
		return "left"
	case EventRight:
		return "right"
	case EventAddTask:
		return "add task"
	case EventQuickAddTask:
		return "quick add task"
	case EventEditTask:
		return "edit task"
	case EventAddTopic:
		return "add topic"
	case EventDeleteTask:
		return "delete task"
	case EventDeleteTopic:
		return "delete topic"
	case EventToggleComplete:
		return "toggle complete"
	case EventToggleFavourite:
		return "toggle favourite"
	case EventHelp:
		return "help"
	case EventLogsOlder:
		return "logs older"
	case EventLogsNewer:
		return "logs newer"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one user intent. Rune is set for EventRune only.
type Event struct {
	Kind EventKind
	Rune rune
}

func Key(kind EventKind) Event { return Event{Kind: kind} }

func Rune(r rune) Event { return Event{Kind: EventRune, Rune: r} }
