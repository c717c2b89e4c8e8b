package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forzaops/registro/internal/domain/activity"
)

// ActivityRepository implements activity.Repository over the kv store.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Load reads the full activity log. An absent or corrupt document is
// an empty log; the log is advisory and never blocks startup.
func (r *ActivityRepository) Load(ctx context.Context) ([]activity.Entry, error) {
	value, ok, err := r.db.Get(ctx, KeyActivityLog)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []activity.Entry{}, nil
	}

	var entries []activity.Entry
	if err := json.Unmarshal([]byte(value), &entries); err != nil {
		if delErr := r.db.Delete(ctx, KeyActivityLog); delErr != nil {
			return nil, fmt.Errorf("failed to drop corrupt key %q: %w", KeyActivityLog, delErr)
		}
		return []activity.Entry{}, nil
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return entries, nil
}

// Save replaces the activity log wholesale.
func (r *ActivityRepository) Save(ctx context.Context, entries []activity.Entry) error {
	if entries == nil {
		entries = []activity.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode activity log: %w", err)
	}
	return r.db.Set(ctx, KeyActivityLog, string(data))
}
