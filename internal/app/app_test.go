package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"taskdeck/internal/storage"
)

func setupTestApp(t *testing.T) (*App, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	a, err := New(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, store
}

func selectKind(t *testing.T, a *App, kind storage.TopicKind) {
	t.Helper()
	i := a.topicIndex(kind)
	if i < 0 {
		t.Fatalf("no topic of kind %v", kind)
	}
	if err := a.SelectTopic(context.Background(), i); err != nil {
		t.Fatalf("SelectTopic: %v", err)
	}
}

func logMessages(a *App) []string {
	var out []string
	for _, line := range a.Logs().Entries() {
		if i := strings.Index(line, "] "); i >= 0 {
			out = append(out, line[i+2:])
		}
	}
	return out
}

func hasLog(a *App, want string) bool {
	for _, msg := range logMessages(a) {
		if msg == want {
			return true
		}
	}
	return false
}

func TestNewBootstrapsBuiltinTopics(t *testing.T) {
	a, _ := setupTestApp(t)

	want := []string{"Favourites", "Default", "Completed"}
	topics := a.Topics()
	if len(topics) != len(want) {
		t.Fatalf("got %d topics, want %d", len(topics), len(want))
	}
	for i, name := range want {
		if topics[i].Name != name {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i].Name, name)
		}
	}
	if cur, _ := a.CurrentTopic(); cur.Kind != storage.KindFavourites {
		t.Errorf("current topic = %q, want Favourites", cur.Name)
	}
	if a.Mode() != ModeNormal {
		t.Errorf("mode = %v, want Normal", a.Mode())
	}

	msgs := logMessages(a)
	wantLogs := []string{
		"Created topic: Favourites",
		"Created topic: Default",
		"Created topic: Completed",
		"Topics loaded",
		"Tasks loaded",
		"Application started",
	}
	if strings.Join(msgs, "|") != strings.Join(wantLogs, "|") {
		t.Errorf("startup logs = %q, want %q", msgs, wantLogs)
	}
}

func TestNewReusesExistingTopics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	store, err := storage.Open(path)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()
	if _, err := store.AddTopic(ctx, "Default", ""); err != nil {
		t.Fatalf("AddTopic: %v", err)
	}

	a, err := New(ctx, store, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := []string{}
	for _, topic := range a.Topics() {
		got = append(got, topic.Name)
	}
	if strings.Join(got, ",") != "Default,Favourites,Completed" {
		t.Fatalf("topics = %v", got)
	}
	if a.SelectedTopic() != 1 {
		t.Errorf("SelectedTopic = %d, want 1 (Favourites)", a.SelectedTopic())
	}

	if _, err := New(ctx, store, nil); err != nil {
		t.Fatalf("second New: %v", err)
	}
	topics, _ := store.LoadTopics(ctx)
	if len(topics) != 3 {
		t.Errorf("topics after second start = %d, want 3", len(topics))
	}
}

func TestAddTaskInDefault(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()
	selectKind(t, a, storage.KindDefault)

	if err := a.AddTask(ctx, "buy milk"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	tasks := a.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Name != "Task buy milk" || got.Description != "buy milk" || got.Completed || got.Favourite {
		t.Errorf("task = %+v", got)
	}
	if !hasLog(a, "Added task: Task buy milk - buy milk") {
		t.Errorf("missing add log in %q", logMessages(a))
	}
}

func TestAddTaskNameUsesFirstTwentyRunes(t *testing.T) {
	a, _ := setupTestApp(t)
	selectKind(t, a, storage.KindDefault)

	desc := "ééééééééééééééééééééééé trailing"
	if err := a.AddTask(context.Background(), desc); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	want := "Task " + strings.Repeat("é", 20)
	if got := a.Tasks()[0].Name; got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
}

func TestAddTaskInFavouritesIsNoop(t *testing.T) {
	a, store := setupTestApp(t)
	ctx := context.Background()
	before := a.Logs().Len()

	if err := a.AddTask(ctx, "ignored"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := a.AddTaskWithDetails(ctx, "n", "d"); err != nil {
		t.Fatalf("AddTaskWithDetails: %v", err)
	}
	all, _ := store.LoadTasks(ctx, storage.Topic{Kind: storage.KindDefault})
	if len(all) != 0 {
		t.Fatalf("store has %d tasks, want 0", len(all))
	}
	if a.Logs().Len() != before {
		t.Errorf("log grew from %d to %d on a no-op", before, a.Logs().Len())
	}
}

func TestEditTaskKeepsFlags(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()
	selectKind(t, a, storage.KindDefault)

	if err := a.AddTaskWithDetails(ctx, "Name", "old"); err != nil {
		t.Fatalf("AddTaskWithDetails: %v", err)
	}
	if err := a.ToggleTask(ctx); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if err := a.ToggleFavourite(ctx); err != nil {
		t.Fatalf("ToggleFavourite: %v", err)
	}
	if err := a.EditTask(ctx, "new"); err != nil {
		t.Fatalf("EditTask: %v", err)
	}

	got, _ := a.SelectedTask()
	if got.Name != "Name" || got.Description != "new" || !got.Completed || !got.Favourite {
		t.Errorf("edited task = %+v", got)
	}
	if !hasLog(a, fmt.Sprintf("Successfully edited task, with id: %d", got.ID)) {
		t.Errorf("missing edit log in %q", logMessages(a))
	}
}

func TestDeleteLastTaskMovesSelectionUp(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()
	selectKind(t, a, storage.KindDefault)

	for _, d := range []string{"one", "two", "three"} {
		if err := a.AddTask(ctx, d); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	a.MoveDown()
	a.MoveDown()
	a.MoveDown()
	if a.Selected() != 2 {
		t.Fatalf("Selected = %d, want 2", a.Selected())
	}
	if err := a.DeleteTask(ctx); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if len(a.Tasks()) != 2 || a.Selected() != 1 {
		t.Fatalf("after delete: %d tasks, selected %d", len(a.Tasks()), a.Selected())
	}

	for len(a.Tasks()) > 0 {
		if err := a.DeleteTask(ctx); err != nil {
			t.Fatalf("DeleteTask: %v", err)
		}
		if n := len(a.Tasks()); n > 0 && a.Selected() >= n {
			t.Fatalf("Selected %d out of range for %d tasks", a.Selected(), n)
		}
	}
	if a.Selected() != 0 {
		t.Errorf("Selected on empty list = %d, want 0", a.Selected())
	}
	if err := a.DeleteTask(ctx); err != nil {
		t.Errorf("DeleteTask on empty list: %v", err)
	}
}

func TestUnfavouriteInFavouritesClampsSelection(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()
	selectKind(t, a, storage.KindDefault)
	for _, d := range []string{"a", "b"} {
		a.AddTask(ctx, d)
		a.MoveDown()
		a.ToggleFavourite(ctx)
	}
	selectKind(t, a, storage.KindFavourites)
	if len(a.Tasks()) != 2 {
		t.Fatalf("favourites = %d, want 2", len(a.Tasks()))
	}
	a.MoveDown()
	if err := a.ToggleFavourite(ctx); err != nil {
		t.Fatalf("ToggleFavourite: %v", err)
	}
	if len(a.Tasks()) != 1 || a.Selected() != 0 {
		t.Errorf("after unfavourite: %d tasks, selected %d", len(a.Tasks()), a.Selected())
	}
}

func TestTopicLifecycle(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()

	if err := a.AddTopic(ctx, "Work"); err != nil {
		t.Fatalf("AddTopic: %v", err)
	}
	if !hasLog(a, "Added topic: Work") {
		t.Errorf("missing topic log in %q", logMessages(a))
	}
	found, err := a.SelectTopicByName(ctx, "Work")
	if err != nil || !found {
		t.Fatalf("SelectTopicByName = (%v, %v)", found, err)
	}
	if a.CurrentTopicIsSpecial() {
		t.Error("Work reported as special")
	}
	if err := a.AddTask(ctx, "ship it"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if err := a.DeleteTopic(ctx); err != nil {
		t.Fatalf("DeleteTopic: %v", err)
	}
	if len(a.Topics()) != 3 || a.SelectedTopic() != 0 {
		t.Errorf("after delete: %d topics, selected %d", len(a.Topics()), a.SelectedTopic())
	}

	if found, _ := a.SelectTopicByName(ctx, "Nope"); found {
		t.Error("SelectTopicByName found a missing topic")
	}
}

func TestDeleteBuiltinTopicIsSilent(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()

	for _, kind := range storage.BuiltinKinds {
		selectKind(t, a, kind)
		before := a.Logs().Len()
		if err := a.DeleteTopic(ctx); err != nil {
			t.Fatalf("DeleteTopic(%v): %v", kind, err)
		}
		if len(a.Topics()) != 3 {
			t.Fatalf("DeleteTopic(%v) removed a topic", kind)
		}
		if a.Logs().Len() != before {
			t.Errorf("DeleteTopic(%v) logged on a guarded no-op", kind)
		}
	}
}

type failingRepo struct {
	Repository
	err error
}

func (f *failingRepo) AddTask(context.Context, int64, string, string) (storage.Task, error) {
	return storage.Task{}, f.err
}

func (f *failingRepo) DeleteTask(context.Context, int64) (int64, error) {
	return 0, f.err
}

type failingLoadRepo struct {
	Repository
	err error
}

func (f *failingLoadRepo) LoadTasks(context.Context, storage.Topic) ([]storage.Task, error) {
	return nil, f.err
}

func TestSelectTopicFailureKeepsSelection(t *testing.T) {
	a, store := setupTestApp(t)
	ctx := context.Background()
	selectKind(t, a, storage.KindDefault)
	if err := a.AddTask(ctx, "still here"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	before := a.SelectedTopic()

	boom := &storage.QueryError{Op: "load tasks", Err: errors.New("disk read")}
	a.repo = &failingLoadRepo{Repository: store, err: boom}

	if err := a.Handle(ctx, Key(EventRight)); !errors.Is(err, boom) {
		t.Fatalf("Handle(right) error = %v, want %v", err, boom)
	}
	if a.SelectedTopic() != before {
		t.Errorf("selected topic = %d, want %d", a.SelectedTopic(), before)
	}
	if cur, _ := a.CurrentTopic(); cur.Kind != storage.KindDefault {
		t.Errorf("current topic = %q, want Default", cur.Name)
	}
	if len(a.Tasks()) != 1 || a.Tasks()[0].Name != "still here" {
		t.Errorf("tasks changed after failed switch: %+v", a.Tasks())
	}
	if !hasLog(a, "Failed to load tasks") {
		t.Error("missing failure log")
	}
}

func TestAddBlankTopicIsIgnored(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()
	topics := len(a.Topics())
	logs := a.Logs().Len()

	for _, name := range []string{"", "   ", "\t"} {
		if err := a.AddTopic(ctx, name); err != nil {
			t.Fatalf("AddTopic(%q): %v", name, err)
		}
	}
	if len(a.Topics()) != topics {
		t.Errorf("topics = %d, want %d", len(a.Topics()), topics)
	}
	if a.Logs().Len() != logs {
		t.Errorf("blank topic was logged: %v", logMessages(a)[logs:])
	}

	if err := a.AddTopic(ctx, "  work  "); err != nil {
		t.Fatalf("AddTopic: %v", err)
	}
	if !hasLog(a, "Added topic: work") {
		t.Errorf("topic name not trimmed: %v", logMessages(a))
	}
}

func TestFailureIsLoggedAndStateKept(t *testing.T) {
	a, store := setupTestApp(t)
	ctx := context.Background()
	selectKind(t, a, storage.KindDefault)
	if err := a.AddTask(ctx, "keep me"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	boom := &storage.QueryError{Op: "add task", Err: errors.New("disk full")}
	a.repo = &failingRepo{Repository: store, err: boom}

	if err := a.AddTask(ctx, "lost"); !errors.Is(err, boom) {
		t.Fatalf("AddTask error = %v, want %v", err, boom)
	}
	if IsFatal(boom) {
		t.Error("query error classified as fatal")
	}
	if len(a.Tasks()) != 1 {
		t.Errorf("tasks changed after failure: %d", len(a.Tasks()))
	}
	msgs := logMessages(a)
	last := msgs[len(msgs)-1]
	if !strings.HasPrefix(last, "Failed to add task") {
		t.Errorf("last log = %q, want a failed add", last)
	}
	lines := a.Logs().Entries()
	if !strings.Contains(lines[len(lines)-1], "[ERROR]") {
		t.Errorf("last log line %q is not an error", lines[len(lines)-1])
	}
}

func TestUnavailableIsFatal(t *testing.T) {
	a, store := setupTestApp(t)
	ctx := context.Background()
	selectKind(t, a, storage.KindDefault)
	if err := a.AddTask(ctx, "x"); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	store.Close()

	err := a.DeleteTask(ctx)
	if !IsFatal(err) {
		t.Fatalf("DeleteTask after close = %v, want fatal", err)
	}
	if len(a.Tasks()) != 1 {
		t.Errorf("tasks changed after fatal failure")
	}
}

func TestToggleExpanded(t *testing.T) {
	a, _ := setupTestApp(t)
	ctx := context.Background()
	a.ToggleExpanded()

	selectKind(t, a, storage.KindDefault)
	a.AddTask(ctx, "details")
	task, _ := a.SelectedTask()
	a.ToggleExpanded()
	if !a.IsExpanded(task.ID) {
		t.Fatal("task not expanded")
	}
	a.ToggleExpanded()
	if a.IsExpanded(task.ID) {
		t.Fatal("task still expanded")
	}
}

func TestAddTaskWithDetailsInDefault(t *testing.T) {
	a, _ := setupTestApp(t)
	selectKind(t, a, storage.KindDefault)

	if err := a.AddTaskWithDetails(context.Background(), "Buy milk", "2% milk, 1 gal"); err != nil {
		t.Fatalf("AddTaskWithDetails: %v", err)
	}
	tasks := a.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if got := tasks[0]; got.Name != "Buy milk" || got.Description != "2% milk, 1 gal" || got.Completed || got.Favourite {
		t.Errorf("task = %+v", got)
	}
}
