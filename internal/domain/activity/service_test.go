package activity_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/forzaops/registro/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	entries []activity.Entry
}

func (r *memRepo) Load(ctx context.Context) ([]activity.Entry, error) {
	return append([]activity.Entry(nil), r.entries...), nil
}

func (r *memRepo) Save(ctx context.Context, entries []activity.Entry) error {
	r.entries = append([]activity.Entry(nil), entries...)
	return nil
}

func newTestService(repo *memRepo) *activity.Service {
	svc := activity.NewService(repo, nil)
	svc.SetClock(func() time.Time {
		return time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	})
	return svc
}

func TestLogAction_AppendsTimestamped(t *testing.T) {
	repo := &memRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	svc.LogAction(ctx, "Inicio de sesión exitoso.")
	svc.LogAction(ctx, "Registro 'x' (#1) creado en incidencias.")

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "2024-06-15T14:30:00Z", entries[0].Timestamp)
	require.Equal(t, "Inicio de sesión exitoso.", entries[0].Action)
}

func TestLogAction_CapDropsOldest(t *testing.T) {
	repo := &memRepo{}
	for i := 0; i < activity.MaxEntries; i++ {
		repo.entries = append(repo.entries, activity.Entry{Timestamp: "old", Action: "relleno"})
	}
	svc := newTestService(repo)

	svc.LogAction(context.Background(), "nueva")

	require.Len(t, repo.entries, activity.MaxEntries)
	require.Equal(t, "nueva", repo.entries[activity.MaxEntries-1].Action)
	require.Equal(t, "relleno", repo.entries[0].Action)
}

func TestExportCSV(t *testing.T) {
	repo := &memRepo{entries: []activity.Entry{
		{Timestamp: "2024-06-15T14:30:00Z", Action: `Registro "especial", con comas`},
	}}
	svc := newTestService(repo)

	filename, data, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	require.Equal(t, "log_de_actividad_2024-06-15.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Equal(t, "Timestamp,Action", lines[0])
	// RFC 4180: embedded quotes doubled, field quoted.
	require.Equal(t, `2024-06-15T14:30:00Z,"Registro ""especial"", con comas"`, lines[1])
}

func TestExportCSV_EmptyLog(t *testing.T) {
	svc := newTestService(&memRepo{})

	_, _, err := svc.ExportCSV(context.Background())
	require.ErrorIs(t, err, activity.ErrEmptyLog)
}
