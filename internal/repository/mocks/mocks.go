package mocks

import (
	"context"

	"github.com/forzaops/registro/internal/domain/activity"
	"github.com/forzaops/registro/internal/domain/task"
	"github.com/stretchr/testify/mock"
)

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Load(ctx context.Context, kind task.Kind) ([]task.Task, error) {
	args := m.Called(ctx, kind)
	if tasks, ok := args.Get(0).([]task.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Save(ctx context.Context, kind task.Kind, tasks []task.Task) error {
	args := m.Called(ctx, kind, tasks)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Load(ctx context.Context) ([]activity.Entry, error) {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]activity.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Save(ctx context.Context, entries []activity.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}
