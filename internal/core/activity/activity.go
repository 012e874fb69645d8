// Package activity models the user-facing activity log.
package activity

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Level represents the severity of an activity entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// OrDefault returns LevelInfo for an empty level.
func (l Level) OrDefault() Level {
	if l == "" {
		return LevelInfo
	}
	return l
}

// TimestampLayout is how entries render their logging time.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is a single message in the activity log. Entries are immutable
// once created.
type Entry struct {
	ID       string
	Message  string
	Level    Level
	LoggedAt time.Time
}

// New creates an entry with a fresh ID stamped at now.
func New(level Level, message string, now time.Time) Entry {
	return Entry{
		ID:       uuid.New().String(),
		Message:  message,
		Level:    level.OrDefault(),
		LoggedAt: now,
	}
}

// Timestamp renders LoggedAt in local time.
func (e Entry) Timestamp() string {
	return e.LoggedAt.Local().Format(TimestampLayout)
}

// Store persists activity entries to durable storage.
type Store interface {
	Save(ctx context.Context, e Entry) error
	// List returns entries newest first.
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

var policy = bluemonday.StrictPolicy()

// SanitizeMessage strips markup from msg and collapses line breaks into
// "; " so an entry always renders on one line.
func SanitizeMessage(msg string) string {
	clean := html.UnescapeString(policy.Sanitize(msg))
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	return strings.ReplaceAll(clean, "\n", "; ")
}
