package activity

import "context"

// Repository persists the activity log as a whole value.
type Repository interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}
