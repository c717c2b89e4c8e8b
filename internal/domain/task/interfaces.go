package task

import "context"

// Repository persists the two task collections as whole values. Save
// replaces the stored collection; there is no per-record persistence.
type Repository interface {
	Load(ctx context.Context, kind Kind) ([]Task, error)
	Save(ctx context.Context, kind Kind, tasks []Task) error
}

// ActionLogger records user-visible activity entries.
type ActionLogger interface {
	LogAction(ctx context.Context, action string)
}

// Archiver receives silent automatic snapshots after mutations.
type Archiver interface {
	AutoSnapshot(ctx context.Context, incidencias, asignaciones []Task) error
}
