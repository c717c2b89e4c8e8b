// Package backup exports and restores full copies of both record
// collections as a single JSON document.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/forzaops/registro/internal/domain/task"
)

// autoSnapshotFile is the rolling safety copy written after every
// mutating operation. It is overwritten in place; dated filenames are
// reserved for user-requested exports.
const autoSnapshotFile = "autobackup_registros.json"

// Collections is the slice of the task service the engine needs.
type Collections interface {
	Snapshot() (incidencias, asignaciones []task.Task)
	ReplaceAll(ctx context.Context, incidencias, asignaciones []task.Task) error
}

// payload is the on-disk backup document. Both keys are always
// emitted on export; either may be absent on import.
type payload struct {
	Incidencias  []task.Task `json:"incidencias"`
	Asignaciones []task.Task `json:"asignaciones"`
}

// Engine produces and consumes backup documents.
type Engine struct {
	collections Collections
	actions     task.ActionLogger
	dir         string
	logger      *slog.Logger
	now         func() time.Time
}

// NewEngine creates a backup engine. dir is where automatic snapshots
// land; empty disables them.
func NewEngine(collections Collections, actions task.ActionLogger, dir string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		collections: collections,
		actions:     actions,
		dir:         dir,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Export renders both collections as an indented JSON document and
// returns it with its dated filename.
func (e *Engine) Export(ctx context.Context) (string, []byte, error) {
	data, err := e.render()
	if err != nil {
		return "", nil, err
	}
	filename := fmt.Sprintf("backup_registros_%s.json", e.now().Format("2006-01-02_15-04-05"))
	if e.actions != nil {
		e.actions.LogAction(ctx, "Copia de seguridad exportada.")
	}
	return filename, data, nil
}

// ExportToFile writes an export into dir and returns the full path.
func (e *Engine) ExportToFile(ctx context.Context, dir string) (string, error) {
	filename, data, err := e.Export(ctx)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup file: %w", err)
	}
	return path, nil
}

// RestoreReport summarizes a completed import.
type RestoreReport struct {
	Incidencias  int
	Asignaciones int
}

// Restore replaces both collections with the contents of a backup
// document. A key missing from the document restores that collection
// as empty; malformed JSON aborts with the live data untouched. Both
// collections are renumbered before they are swapped in.
func (e *Engine) Restore(ctx context.Context, data []byte) (RestoreReport, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return RestoreReport{}, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	incidencias := task.Renumber(p.Incidencias)
	asignaciones := task.Renumber(p.Asignaciones)
	if err := e.collections.ReplaceAll(ctx, incidencias, asignaciones); err != nil {
		return RestoreReport{}, fmt.Errorf("replacing collections: %w", err)
	}
	if e.actions != nil {
		e.actions.LogAction(ctx, fmt.Sprintf("Copia de seguridad importada (%d incidencias, %d asignaciones).",
			len(incidencias), len(asignaciones)))
	}
	return RestoreReport{Incidencias: len(incidencias), Asignaciones: len(asignaciones)}, nil
}

// RestoreFile reads a backup document from disk and restores it.
func (e *Engine) RestoreFile(ctx context.Context, path string) (RestoreReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RestoreReport{}, fmt.Errorf("reading backup file: %w", err)
	}
	return e.Restore(ctx, data)
}

// AutoSnapshot writes a rolling safety copy of both collections. It
// runs after mutating operations and never blocks them; the caller
// only logs failures.
func (e *Engine) AutoSnapshot(ctx context.Context, incidencias, asignaciones []task.Task) error {
	if e.dir == "" {
		return nil
	}
	data, err := json.MarshalIndent(payload{
		Incidencias:  emptyNotNil(incidencias),
		Asignaciones: emptyNotNil(asignaciones),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := filepath.Join(e.dir, autoSnapshotFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

func (e *Engine) render() ([]byte, error) {
	incidencias, asignaciones := e.collections.Snapshot()
	data, err := json.MarshalIndent(payload{
		Incidencias:  emptyNotNil(incidencias),
		Asignaciones: emptyNotNil(asignaciones),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

func emptyNotNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}
