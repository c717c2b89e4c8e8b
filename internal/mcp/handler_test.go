package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/forzaops/registro/internal/domain/activity"
	"github.com/forzaops/registro/internal/domain/backup"
	"github.com/forzaops/registro/internal/domain/selection"
	"github.com/forzaops/registro/internal/domain/task"
	"github.com/forzaops/registro/internal/export"
	"github.com/forzaops/registro/internal/mcp"
	"github.com/stretchr/testify/require"
)

type memTaskRepo struct {
	collections map[task.Kind][]task.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{collections: make(map[task.Kind][]task.Task)}
}

func (r *memTaskRepo) Load(ctx context.Context, kind task.Kind) ([]task.Task, error) {
	return task.CloneAll(r.collections[kind]), nil
}

func (r *memTaskRepo) Save(ctx context.Context, kind task.Kind, tasks []task.Task) error {
	r.collections[kind] = task.CloneAll(tasks)
	return nil
}

type memActivityRepo struct {
	entries []activity.Entry
}

func (r *memActivityRepo) Load(ctx context.Context) ([]activity.Entry, error) {
	return append([]activity.Entry(nil), r.entries...), nil
}

func (r *memActivityRepo) Save(ctx context.Context, entries []activity.Entry) error {
	r.entries = append([]activity.Entry(nil), entries...)
	return nil
}

func newTestHandler(t *testing.T) *mcp.Handler {
	t.Helper()
	ctx := context.Background()

	activitySvc := activity.NewService(&memActivityRepo{}, nil)
	taskSvc := task.NewService(newMemTaskRepo(), activitySvc, nil, nil)
	_, err := taskSvc.Load(ctx)
	require.NoError(t, err)

	backupSvc := backup.NewEngine(taskSvc, activitySvc, "", nil)
	exportSvc := export.NewService(taskSvc, activitySvc, nil)

	return mcp.NewHandler(taskSvc, activitySvc, backupSvc, exportSvc, selection.New())
}

func call(t *testing.T, h *mcp.Handler, method, params string) any {
	t.Helper()
	result, err := h.Handle(context.Background(), method, json.RawMessage(params))
	require.NoError(t, err)
	return result
}

func createIncident(t *testing.T, h *mcp.Handler, nombre string) mcp.TaskResponse {
	t.Helper()
	result := call(t, h, "create_record", `{
		"kind": "incidencia",
		"nombre": "`+nombre+`",
		"fecha": "2024-06-01",
		"hora": "08:00",
		"incidencia": "detalle"
	}`)
	resp, ok := result.(mcp.TaskResponse)
	require.True(t, ok)
	return resp
}

func TestHandle_CreateAndGet(t *testing.T) {
	h := newTestHandler(t)

	created := createIncident(t, h, "caída de línea")
	require.Equal(t, 1, created.Consecutivo)
	require.Equal(t, task.StatusEnProgreso, created.Estado)
	require.Equal(t, "-", created.SLA)

	result := call(t, h, "get_record", `{"id":"`+created.ID+`"}`)
	got := result.(mcp.TaskResponse)
	require.Equal(t, "caída de línea", got.Nombre)
}

func TestHandle_ChangeStatusStampsSLA(t *testing.T) {
	h := newTestHandler(t)
	created := createIncident(t, h, "caída")

	result := call(t, h, "change_status", `{"id":"`+created.ID+`"}`)
	resolved := result.(mcp.TaskResponse)
	require.Equal(t, task.StatusResuelta, resolved.Estado)
	require.NotEmpty(t, resolved.FechaResuelta)
	require.NotEqual(t, "-", resolved.SLA)
}

func TestHandle_ListRecords(t *testing.T) {
	h := newTestHandler(t)
	createIncident(t, h, "uno")
	createIncident(t, h, "dos")

	result := call(t, h, "list_records", `{"kind":"incidencia","sort":"antiguo"}`)
	list := result.([]mcp.TaskResponse)
	require.Len(t, list, 2)
	require.Equal(t, 1, list[0].Consecutivo)
}

func TestHandle_SelectionBulkArchive(t *testing.T) {
	h := newTestHandler(t)
	a := createIncident(t, h, "uno")
	b := createIncident(t, h, "dos")

	call(t, h, "selection_enter", `{"id":"`+a.ID+`"}`)
	sel := call(t, h, "selection_toggle", `{"id":"`+b.ID+`"}`).(mcp.SelectionResponse)
	require.Equal(t, 2, sel.Count)

	archived := call(t, h, "archive_selected", ``).(mcp.CountResponse)
	require.Equal(t, 2, archived.Count)

	// Selection mode ends with the bulk action.
	after := call(t, h, "selection_exit", ``).(mcp.SelectionResponse)
	require.Equal(t, 0, after.Count)

	active := call(t, h, "list_records", `{"kind":"incidencia"}`).([]mcp.TaskResponse)
	require.Empty(t, active)
	archivedList := call(t, h, "list_records", `{"kind":"incidencia","view":"archivadas"}`).([]mcp.TaskResponse)
	require.Len(t, archivedList, 2)
}

func TestHandle_BackupRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	createIncident(t, h, "uno")

	file := call(t, h, "export_backup", ``).(mcp.FileResponse)
	require.Contains(t, file.Filename, "backup_registros_")

	fresh := newTestHandler(t)
	payload, err := json.Marshal(mcp.ImportBackupParams{Content: file.Content})
	require.NoError(t, err)
	report := call(t, fresh, "import_backup", string(payload)).(backup.RestoreReport)
	require.Equal(t, 1, report.Incidencias)

	restored := call(t, fresh, "list_records", `{"kind":"incidencia"}`).([]mcp.TaskResponse)
	require.Len(t, restored, 1)
	require.Equal(t, "uno", restored[0].Nombre)
}

func TestHandle_UnknownMethod(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Handle(context.Background(), "no_such_tool", nil)
	var apiErr *mcp.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "UNKNOWN_METHOD", apiErr.Code)
}

func TestHandle_InvalidParams(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Handle(context.Background(), "get_record", json.RawMessage(`{"id":`))
	var apiErr *mcp.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_PARAMS", apiErr.Code)
}

func TestMapError(t *testing.T) {
	require.Equal(t, "RECORD_NOT_FOUND", mcp.MapError(task.ErrTaskNotFound).Code)
	require.Equal(t, "NOT_ASSIGNMENT", mcp.MapError(task.ErrNotAssignment).Code)
	require.Equal(t, "EMPTY_LOG", mcp.MapError(activity.ErrEmptyLog).Code)
	require.Equal(t, "MALFORMED_BACKUP", mcp.MapError(backup.ErrMalformedBackup).Code)
	require.Equal(t, "NO_RECORDS", mcp.MapError(export.ErrNoRecords).Code)
	require.Nil(t, mcp.MapError(errors.New("plain")))
	require.Nil(t, mcp.MapError(nil))
}

func TestHandle_GenerateReport(t *testing.T) {
	h := newTestHandler(t)
	createIncident(t, h, "uno")

	result := call(t, h, "generate_report", `{"kind":"incidencia","desde":"2024-06-01","hasta":"2024-06-30"}`)
	resp := result.(mcp.ReportResponse)
	require.Equal(t, 1, resp.Report.Summary.Total)
	require.Contains(t, resp.CSV, "Periodo,2024-06-01 a 2024-06-30")
}
