package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/data/db"
)

// ActivityStore implements activity.Store using SQLite.
type ActivityStore struct {
	db *db.DB
}

var _ activity.Store = (*ActivityStore)(nil)

// NewActivityStore creates a new SQLite-backed activity store.
func NewActivityStore(db *db.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Save persists an entry. Saving an existing ID replaces it.
func (s *ActivityStore) Save(ctx context.Context, e activity.Entry) error {
	_, err := s.db.Conn().ExecContext(ctx,
		"INSERT OR REPLACE INTO activity_logs (id, level, message, logged_at) VALUES (?, ?, ?, ?)",
		e.ID, string(e.Level.OrDefault()), e.Message, e.LoggedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

// List returns all entries ordered by newest first.
func (s *ActivityStore) List(ctx context.Context) ([]activity.Entry, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT id, level, message, logged_at FROM activity_logs ORDER BY logged_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list activity entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]activity.Entry, 0)
	for rows.Next() {
		var (
			e        activity.Entry
			level    string
			loggedAt int64
		)
		if err := rows.Scan(&e.ID, &level, &e.Message, &loggedAt); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		e.Level = activity.Level(level)
		e.LoggedAt = time.Unix(0, loggedAt)
		result = append(result, e)
	}

	return result, rows.Err()
}

// Delete removes a single entry by ID. Unknown IDs are ignored.
func (s *ActivityStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM activity_logs WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete activity entry: %w", err)
	}
	return nil
}

// Clear deletes all entries.
func (s *ActivityStore) Clear(ctx context.Context) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM activity_logs"); err != nil {
		return fmt.Errorf("clear activity entries: %w", err)
	}
	return nil
}
