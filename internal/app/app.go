// Package app holds the in-memory state of a taskdeck session and the input
// modes that drive it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"taskdeck/internal/logbuf"
	"taskdeck/internal/storage"
)

// Repository is the persistence the App needs. *storage.Store implements it.
type Repository interface {
	LoadTopics(ctx context.Context) ([]storage.Topic, error)
	AddTopic(ctx context.Context, name, description string) (storage.Topic, error)
	DeleteTopic(ctx context.Context, id int64) (int64, error)
	LoadTasks(ctx context.Context, topic storage.Topic) ([]storage.Task, error)
	AddTask(ctx context.Context, topicID int64, name, description string) (storage.Task, error)
	UpdateTask(ctx context.Context, id int64, u storage.TaskUpdate) (storage.Task, error)
	ToggleTaskCompletion(ctx context.Context, id int64) (storage.Task, error)
	ToggleTaskFavourite(ctx context.Context, id int64) (storage.Task, error)
	DeleteTask(ctx context.Context, id int64) (int64, error)
}

const quickNameRunes = 20

type App struct {
	repo   Repository
	logger *slog.Logger
	logs   *logbuf.Buffer

	topics        []storage.Topic
	selectedTopic int
	tasks         []storage.Task
	selected      int
	expanded      map[int64]struct{}

	mode            Mode
	input           string
	taskName        string
	taskDescription string
	showHelp        bool
}

// New loads the session state from repo, creating the built-in topics when
// they are missing, and selects Favourites.
func New(ctx context.Context, repo Repository, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{
		repo:     repo,
		logger:   logger,
		logs:     logbuf.New(),
		expanded: map[int64]struct{}{},
		mode:     ModeNormal,
	}

	if err := a.reloadTopics(ctx); err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	for _, kind := range storage.BuiltinKinds {
		if a.topicIndex(kind) >= 0 {
			continue
		}
		name := kind.TopicName()
		if _, err := repo.AddTopic(ctx, name, ""); err != nil {
			return nil, fmt.Errorf("create topic %s: %w", name, err)
		}
		a.Record(slog.LevelInfo, "Created topic: "+name)
		if err := a.reloadTopics(ctx); err != nil {
			return nil, fmt.Errorf("load topics: %w", err)
		}
	}
	a.Record(slog.LevelInfo, "Topics loaded")

	if i := a.topicIndex(storage.KindFavourites); i >= 0 {
		a.selectedTopic = i
	}
	if err := a.reloadTasks(ctx); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	a.Record(slog.LevelInfo, "Tasks loaded")
	a.Record(slog.LevelInfo, "Application started")
	return a, nil
}

func (a *App) Topics() []storage.Topic { return a.topics }

func (a *App) SelectedTopic() int { return a.selectedTopic }

// CurrentTopic returns the selected topic; ok is false when there are none.
func (a *App) CurrentTopic() (storage.Topic, bool) {
	if len(a.topics) == 0 {
		return storage.Topic{}, false
	}
	return a.topics[a.selectedTopic], true
}

func (a *App) Tasks() []storage.Task { return a.tasks }

func (a *App) Selected() int { return a.selected }

func (a *App) SelectedTask() (storage.Task, bool) {
	if len(a.tasks) == 0 {
		return storage.Task{}, false
	}
	return a.tasks[a.selected], true
}

func (a *App) Mode() Mode { return a.mode }

func (a *App) Input() string { return a.input }

func (a *App) TaskNameInput() string { return a.taskName }

func (a *App) TaskDescriptionInput() string { return a.taskDescription }

func (a *App) Logs() *logbuf.Buffer { return a.logs }

func (a *App) LogOffset() int { return a.logs.Offset() }

func (a *App) ShowHelp() bool { return a.showHelp }

func (a *App) IsExpanded(id int64) bool {
	_, ok := a.expanded[id]
	return ok
}

// CurrentTopicIsSpecial reports whether the selected topic is Favourites or
// Default, the two views that cannot be removed from the topic bar.
func (a *App) CurrentTopicIsSpecial() bool {
	t, ok := a.CurrentTopic()
	return ok && (t.Kind == storage.KindFavourites || t.Kind == storage.KindDefault)
}

func (a *App) CurrentTopicIsFavourites() bool {
	t, ok := a.CurrentTopic()
	return ok && t.Kind == storage.KindFavourites
}

// Record appends msg to the log buffer and mirrors it to the process logger.
func (a *App) Record(level slog.Level, msg string) {
	a.logs.Append(level, msg)
	a.logger.Log(context.Background(), level, msg)
}

func (a *App) fail(action string, err error) error {
	a.Record(slog.LevelError, fmt.Sprintf("%s: %v", action, err))
	return err
}

// AddTask adds a task to the current topic, naming it after the start of
// its description.
func (a *App) AddTask(ctx context.Context, description string) error {
	return a.AddTaskWithDetails(ctx, quickName(description), description)
}

// AddTaskWithDetails adds a task to the current topic. Nothing is added while
// Favourites is selected.
func (a *App) AddTaskWithDetails(ctx context.Context, name, description string) error {
	topic, ok := a.CurrentTopic()
	if !ok || topic.Kind == storage.KindFavourites {
		return nil
	}
	if _, err := a.repo.AddTask(ctx, topic.ID, name, description); err != nil {
		return a.fail("Failed to add task", err)
	}
	a.Record(slog.LevelInfo, fmt.Sprintf("Added task: %s - %s", name, description))
	return a.reloadTasksOrFail(ctx)
}

func (a *App) ToggleTask(ctx context.Context) error {
	task, ok := a.SelectedTask()
	if !ok {
		return nil
	}
	if _, err := a.repo.ToggleTaskCompletion(ctx, task.ID); err != nil {
		return a.fail("Failed to toggle task", err)
	}
	a.Record(slog.LevelInfo, fmt.Sprintf("Toggled task id: %d", task.ID))
	return a.reloadTasksOrFail(ctx)
}

func (a *App) ToggleFavourite(ctx context.Context) error {
	task, ok := a.SelectedTask()
	if !ok {
		return nil
	}
	if _, err := a.repo.ToggleTaskFavourite(ctx, task.ID); err != nil {
		return a.fail("Failed to toggle favourite", err)
	}
	a.Record(slog.LevelInfo, fmt.Sprintf("Toggled favourite for task id: %d", task.ID))
	return a.reloadTasksOrFail(ctx)
}

// EditTask replaces the description of the selected task and leaves its
// other fields as they are.
func (a *App) EditTask(ctx context.Context, description string) error {
	task, ok := a.SelectedTask()
	if !ok {
		return nil
	}
	update := storage.TaskUpdate{
		Name:        &task.Name,
		Description: &description,
		Completed:   &task.Completed,
		Favourite:   &task.Favourite,
	}
	if _, err := a.repo.UpdateTask(ctx, task.ID, update); err != nil {
		return a.fail("Failed to edit task", err)
	}
	a.Record(slog.LevelInfo, fmt.Sprintf("Successfully edited task, with id: %d", task.ID))
	return a.reloadTasksOrFail(ctx)
}

func (a *App) DeleteTask(ctx context.Context) error {
	task, ok := a.SelectedTask()
	if !ok {
		return nil
	}
	if _, err := a.repo.DeleteTask(ctx, task.ID); err != nil {
		return a.fail("Failed to delete task", err)
	}
	delete(a.expanded, task.ID)
	a.Record(slog.LevelInfo, fmt.Sprintf("Deleted task id: %d", task.ID))
	if err := a.reloadTasksOrFail(ctx); err != nil {
		return err
	}
	if a.selected > 0 && a.selected >= len(a.tasks) {
		a.selected--
	}
	return nil
}

// AddTopic creates a topic. A blank name is ignored.
func (a *App) AddTopic(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if _, err := a.repo.AddTopic(ctx, name, ""); err != nil {
		return a.fail("Failed to add topic", err)
	}
	a.Record(slog.LevelInfo, "Added topic: "+name)
	if err := a.reloadTopics(ctx); err != nil {
		return a.fail("Failed to load topics", err)
	}
	return nil
}

// DeleteTopic removes the selected topic and its tasks. Built-in topics are
// kept and the call does nothing.
func (a *App) DeleteTopic(ctx context.Context) error {
	topic, ok := a.CurrentTopic()
	if !ok {
		return nil
	}
	n, err := a.repo.DeleteTopic(ctx, topic.ID)
	if err != nil {
		return a.fail("Failed to delete topic", err)
	}
	if n == 0 {
		return nil
	}
	a.Record(slog.LevelInfo, "Deleted topic: "+topic.Name)
	if err := a.reloadTopics(ctx); err != nil {
		return a.fail("Failed to load topics", err)
	}
	a.selectedTopic = 0
	a.selected = 0
	return a.reloadTasksOrFail(ctx)
}

// SelectTopic switches to the topic at index, clamped to the topic list, and
// moves the task cursor back to the top.
func (a *App) SelectTopic(ctx context.Context, index int) error {
	if len(a.topics) == 0 {
		return nil
	}
	index = clampCursor(index, len(a.topics))
	tasks, err := a.repo.LoadTasks(ctx, a.topics[index])
	if err != nil {
		return a.fail("Failed to load tasks", err)
	}
	a.selectedTopic = index
	a.tasks = tasks
	a.selected = 0
	return nil
}

// SelectTopicByName reports whether a topic called name exists, switching to
// it when it does.
func (a *App) SelectTopicByName(ctx context.Context, name string) (bool, error) {
	for i, t := range a.topics {
		if t.Name == name {
			return true, a.SelectTopic(ctx, i)
		}
	}
	return false, nil
}

func (a *App) MoveUp() {
	if a.selected > 0 {
		a.selected--
	}
}

func (a *App) MoveDown() {
	if a.selected < len(a.tasks)-1 {
		a.selected++
	}
}

func (a *App) ToggleExpanded() {
	task, ok := a.SelectedTask()
	if !ok {
		return
	}
	if _, open := a.expanded[task.ID]; open {
		delete(a.expanded, task.ID)
		return
	}
	a.expanded[task.ID] = struct{}{}
}

func (a *App) ScrollLogsOlder() { a.logs.ScrollOlder() }

func (a *App) ScrollLogsNewer() { a.logs.ScrollNewer() }

// IsFatal reports whether err means the store can no longer be reached.
func IsFatal(err error) bool {
	return errors.Is(err, storage.ErrUnavailable)
}

func (a *App) reloadTopics(ctx context.Context) error {
	topics, err := a.repo.LoadTopics(ctx)
	if err != nil {
		return err
	}
	a.topics = topics
	a.selectedTopic = clampCursor(a.selectedTopic, len(a.topics))
	return nil
}

func (a *App) reloadTasks(ctx context.Context) error {
	topic, ok := a.CurrentTopic()
	if !ok {
		a.tasks = nil
		a.selected = 0
		return nil
	}
	tasks, err := a.repo.LoadTasks(ctx, topic)
	if err != nil {
		return err
	}
	a.tasks = tasks
	a.selected = clampCursor(a.selected, len(a.tasks))
	return nil
}

func (a *App) reloadTasksOrFail(ctx context.Context) error {
	if err := a.reloadTasks(ctx); err != nil {
		return a.fail("Failed to load tasks", err)
	}
	return nil
}

func (a *App) topicIndex(kind storage.TopicKind) int {
	for i, t := range a.topics {
		if t.Kind == kind {
			return i
		}
	}
	return -1
}

func quickName(description string) string {
	r := []rune(description)
	if len(r) > quickNameRunes {
		r = r[:quickNameRunes]
	}
	return "Task " + string(r)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
