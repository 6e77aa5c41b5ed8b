// Package logbuf keeps the in-memory operation log shown under the task list.
package logbuf

import (
	"fmt"
	"log/slog"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// Buffer is an append-only list of formatted log lines with a scroll offset
// counted from the newest entry.
type Buffer struct {
	entries []string
	offset  int
	now     func() time.Time
}

func New() *Buffer {
	return &Buffer{now: time.Now}
}

// NewWithClock returns a Buffer that stamps entries with now.
func NewWithClock(now func() time.Time) *Buffer {
	return &Buffer{now: now}
}

// Append records msg at level and scrolls back to the newest entry.
func (b *Buffer) Append(level slog.Level, msg string) string {
	line := fmt.Sprintf("%s [%s] %s", b.now().Format(timeLayout), level, msg)
	b.entries = append(b.entries, line)
	b.offset = 0
	return line
}

func (b *Buffer) Entries() []string {
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Buffer) Len() int { return len(b.entries) }

func (b *Buffer) Offset() int { return b.offset }

func (b *Buffer) ScrollOlder() {
	if b.offset < len(b.entries)-1 {
		b.offset++
	}
}

func (b *Buffer) ScrollNewer() {
	if b.offset > 0 {
		b.offset--
	}
}

// Window returns at most height entries ending offset entries before the
// newest one.
func (b *Buffer) Window(height int) []string {
	if height <= 0 || len(b.entries) == 0 {
		return nil
	}
	end := len(b.entries) - b.offset
	start := end - height
	if start < 0 {
		start = 0
	}
	out := make([]string, end-start)
	copy(out, b.entries[start:end])
	return out
}
