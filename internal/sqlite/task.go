package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forzaops/registro/internal/domain/task"
)

// TaskRepository implements task.Repository over the kv store. Each
// collection is one JSON array under its own key.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func collectionKey(kind task.Kind) (string, error) {
	switch kind {
	case task.KindIncidencia:
		return KeyIncidencias, nil
	case task.KindAsignacion:
		return KeyAsignaciones, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", task.ErrInvalidKind, kind)
	}
}

// Load reads one collection. An absent key is an empty collection; a
// corrupt document is dropped and also reported empty, so startup
// survives bad data.
func (r *TaskRepository) Load(ctx context.Context, kind task.Kind) ([]task.Task, error) {
	key, err := collectionKey(kind)
	if err != nil {
		return nil, err
	}

	value, ok, err := r.db.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []task.Task{}, nil
	}

	var tasks []task.Task
	if err := json.Unmarshal([]byte(value), &tasks); err != nil {
		if delErr := r.db.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("failed to drop corrupt key %q: %w", key, delErr)
		}
		return []task.Task{}, nil
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}

// Save replaces one collection wholesale.
func (r *TaskRepository) Save(ctx context.Context, kind task.Kind, tasks []task.Task) error {
	key, err := collectionKey(kind)
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return r.db.Set(ctx, key, string(data))
}
