package storage

import "time"

// TimestampLayout is the on-disk format of created_at and updated_at. String
// order matches chronological order only within a single zone, so every
// timestamp is written in local time.
const TimestampLayout = "2006-01-02 15:04:05"

// TopicKind distinguishes the built-in topics from user-created ones. It is
// resolved once, when a topic row is decoded.
type TopicKind int

const (
	KindCustom TopicKind = iota
	KindFavourites
	KindDefault
	KindCompleted
)

// Names of the built-in topics, in the order they are bootstrapped.
const (
	FavouritesName = "Favourites"
	DefaultName    = "Default"
	CompletedName  = "Completed"
)

// BuiltinKinds lists the built-in topics in the order they are created on
// first start.
var BuiltinKinds = []TopicKind{KindFavourites, KindDefault, KindCompleted}

func kindOf(name string) TopicKind {
	switch name {
	case FavouritesName:
		return KindFavourites
	case DefaultName:
		return KindDefault
	case CompletedName:
		return KindCompleted
	default:
		return KindCustom
	}
}

func (k TopicKind) String() string {
	switch k {
	case KindFavourites:
		return "favourites"
	case KindDefault:
		return "default"
	case KindCompleted:
		return "completed"
	default:
		return "custom"
	}
}

// TopicName is the stored name of a built-in kind. It is empty for
// KindCustom.
func (k TopicKind) TopicName() string {
	switch k {
	case KindFavourites:
		return FavouritesName
	case KindDefault:
		return DefaultName
	case KindCompleted:
		return CompletedName
	default:
		return ""
	}
}

// Protected reports whether topics of this kind are exempt from deletion.
func (k TopicKind) Protected() bool {
	return k != KindCustom
}

type Topic struct {
	ID          int64
	Name        string
	Description string
	Kind        TopicKind
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Task struct {
	ID          int64
	TopicID     int64
	Name        string
	Description string
	Completed   bool
	Favourite   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskUpdate carries the fields to change on a task; nil fields are left as
// they are. updated_at is always refreshed.
type TaskUpdate struct {
	Name        *string
	Description *string
	Completed   *bool
	Favourite   *bool
}

type rowScanner interface {
	Scan(dest ...any) error
}

const topicColumns = `id, name, COALESCE(description, ''), created_at, updated_at`

func scanTopic(row rowScanner) (Topic, error) {
	var t Topic
	var created, updated string
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &created, &updated); err != nil {
		return Topic{}, err
	}
	t.Kind = kindOf(t.Name)
	t.CreatedAt = parseTimestamp(created)
	t.UpdatedAt = parseTimestamp(updated)
	return t, nil
}

const taskColumns = `id, topic_id, name, description, completed, favourite, created_at, updated_at`

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var completed, favourite int
	var created, updated string
	if err := row.Scan(&t.ID, &t.TopicID, &t.Name, &t.Description, &completed, &favourite, &created, &updated); err != nil {
		return Task{}, err
	}
	t.Completed = completed == 1
	t.Favourite = favourite == 1
	t.CreatedAt = parseTimestamp(created)
	t.UpdatedAt = parseTimestamp(updated)
	return t, nil
}

func formatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}

func parseTimestamp(s string) time.Time {
	parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
