package sqlite

import (
	"context"
	"testing"

	"github.com/forzaops/registro/internal/domain/task"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_RoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	tasks, err := repo.Load(ctx, task.KindIncidencia)
	require.NoError(t, err)
	require.Empty(t, tasks)

	in := []task.Task{{
		ID:          "i1",
		Consecutivo: 1,
		Nombre:      "caída de línea",
		Fecha:       "2024-06-01",
		Hora:        "08:00",
		Clientes:    []string{"acme"},
		Estado:      task.StatusEnProgreso,
		Incidencia:  "parada total",
	}}
	require.NoError(t, repo.Save(ctx, task.KindIncidencia, in))

	out, err := repo.Load(ctx, task.KindIncidencia)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestTaskRepository_CollectionsAreIndependent(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, task.KindIncidencia, []task.Task{{ID: "i1"}}))
	require.NoError(t, repo.Save(ctx, task.KindAsignacion, []task.Task{{ID: "a1"}, {ID: "a2"}}))

	incidencias, err := repo.Load(ctx, task.KindIncidencia)
	require.NoError(t, err)
	require.Len(t, incidencias, 1)

	asignaciones, err := repo.Load(ctx, task.KindAsignacion)
	require.NoError(t, err)
	require.Len(t, asignaciones, 2)
}

func TestTaskRepository_CorruptKeyDropped(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Set(ctx, KeyIncidencias, "{not json"))

	tasks, err := repo.Load(ctx, task.KindIncidencia)
	require.NoError(t, err)
	require.Empty(t, tasks)

	_, ok, err := db.Get(ctx, KeyIncidencias)
	require.NoError(t, err)
	require.False(t, ok, "corrupt key should be dropped")
}

func TestTaskRepository_UnknownKind(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)

	_, err := repo.Load(context.Background(), task.Kind("otro"))
	require.ErrorIs(t, err, task.ErrInvalidKind)
}
