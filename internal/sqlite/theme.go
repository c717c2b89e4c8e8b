package sqlite

import "context"

// EnsureTheme pins the UI theme value at startup. Clients read it
// back verbatim; only the dark theme is supported.
func (db *DB) EnsureTheme(ctx context.Context) error {
	return db.Set(ctx, KeyTheme, "dark")
}
