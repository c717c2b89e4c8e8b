package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/forzaops/registro/internal/domain/activity"
	"github.com/forzaops/registro/internal/domain/backup"
	"github.com/forzaops/registro/internal/domain/task"
	"github.com/forzaops/registro/internal/export"
)

// TaskService defines record operations needed by MCP.
type TaskService interface {
	List(ctx context.Context, kind task.Kind, opts task.ListOptions) ([]task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	Update(ctx context.Context, req task.UpdateRequest) (*task.Task, error)
	ChangeStatus(ctx context.Context, id string) (*task.Task, error)
	EditResolutionTime(ctx context.Context, id, fecha, hora string) (*task.Task, error)
	Categorize(ctx context.Context, id string, category task.Category, otherCategory string) (*task.Task, error)
	Archive(ctx context.Context, id string) (*task.Task, error)
	Unarchive(ctx context.Context, id string) (*task.Task, error)
	ArchiveMany(ctx context.Context, ids []string) (int, error)
	RestoreMany(ctx context.Context, ids []string) (int, error)
	Delete(ctx context.Context, ids []string) (int, error)
	Transfer(ctx context.Context, id string) (*task.Task, error)
	Duplicate(ctx context.Context, id string) (*task.Draft, error)
}

// ActivityService defines activity log operations needed by MCP.
type ActivityService interface {
	List(ctx context.Context) ([]activity.Entry, error)
	ExportCSV(ctx context.Context) (string, []byte, error)
}

// BackupService defines backup operations needed by MCP.
type BackupService interface {
	Export(ctx context.Context) (string, []byte, error)
	Restore(ctx context.Context, data []byte) (backup.RestoreReport, error)
}

// ExportService defines report operations needed by MCP.
type ExportService interface {
	Generate(ctx context.Context, kind task.Kind, desde, hasta string) (export.Report, error)
	Filename(kind task.Kind) string
	GenerateInvGate(ctx context.Context, kind task.Kind) ([]export.InvGateRow, error)
	InvGateFilename(kind task.Kind) string
	Statistics(ctx context.Context, opts export.StatisticsOptions) []export.Group
}

// Selection defines bulk-selection state needed by MCP.
type Selection interface {
	Active() bool
	Enter(id string)
	Exit()
	Toggle(id string)
	ToggleAll(visible []string)
	Selected() []string
	Count() int
}

// Handler dispatches MCP commands.
type Handler struct {
	tasks     TaskService
	activity  ActivityService
	backups   BackupService
	exports   ExportService
	selection Selection
}

// NewHandler creates a new MCP handler.
func NewHandler(tasks TaskService, activitySvc ActivityService, backups BackupService, exports ExportService, sel Selection) *Handler {
	return &Handler{
		tasks:     tasks,
		activity:  activitySvc,
		backups:   backups,
		exports:   exports,
		selection: sel,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_record":
		var req CreateRecordParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Create(ctx, task.CreateRequest{
			Kind:                task.Kind(req.Kind),
			Nombre:              req.Nombre,
			Fecha:               req.Fecha,
			Hora:                req.Hora,
			Clientes:            req.Clientes,
			PersonalInvolucrado: req.PersonalInvolucrado,
			DeviceID:            req.DeviceID,
			Category:            task.Category(req.Category),
			OtherCategory:       req.OtherCategory,
			Incidencia:          req.Incidencia,
			Solucion:            req.Solucion,
			Requerimiento:       req.Requerimiento,
		})
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "update_record":
		var req UpdateRecordParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Update(ctx, task.UpdateRequest{
			ID:                  req.ID,
			Nombre:              req.Nombre,
			Fecha:               req.Fecha,
			Hora:                req.Hora,
			Clientes:            req.Clientes,
			PersonalInvolucrado: req.PersonalInvolucrado,
			DeviceID:            req.DeviceID,
			Category:            categoryPtr(req.Category),
			OtherCategory:       req.OtherCategory,
			Incidencia:          req.Incidencia,
			Solucion:            req.Solucion,
			Requerimiento:       req.Requerimiento,
		})
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "change_status":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.ChangeStatus(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "edit_resolution_time":
		var req EditResolutionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.EditResolutionTime(ctx, req.ID, req.FechaResuelta, req.HoraResuelta)
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "categorize_record":
		var req CategorizeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Categorize(ctx, req.ID, task.Category(req.Category), req.OtherCategory)
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "archive_record":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Archive(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "unarchive_record":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Unarchive(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "duplicate_record":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		draft, err := h.tasks.Duplicate(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return draft, nil

	case "transfer_record":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Transfer(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "delete_records":
		var req RecordIDsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		count, err := h.tasks.Delete(ctx, req.IDs)
		if err != nil {
			return nil, err
		}
		return CountResponse{Count: count}, nil

	case "list_records":
		var req ListRecordsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		tasks, err := h.tasks.List(ctx, task.Kind(req.Kind), task.ListOptions{
			View:   task.View(req.View),
			Status: task.StatusFilter(req.Status),
			Sort:   task.SortOrder(req.Sort),
		})
		if err != nil {
			return nil, err
		}
		resp := make([]TaskResponse, 0, len(tasks))
		for i := range tasks {
			resp = append(resp, taskResponse(&tasks[i]))
		}
		return resp, nil

	case "get_record":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		t, err := h.tasks.Get(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return taskResponse(t), nil

	case "selection_enter":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		h.selection.Enter(req.ID)
		return h.selectionResponse(), nil

	case "selection_toggle":
		var req RecordIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		h.selection.Toggle(req.ID)
		return h.selectionResponse(), nil

	case "selection_toggle_all":
		var req VisibleIDsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		h.selection.ToggleAll(req.VisibleIDs)
		return h.selectionResponse(), nil

	case "selection_exit":
		h.selection.Exit()
		return h.selectionResponse(), nil

	case "archive_selected":
		count, err := h.tasks.ArchiveMany(ctx, h.selection.Selected())
		if err != nil {
			return nil, err
		}
		h.selection.Exit()
		return CountResponse{Count: count}, nil

	case "restore_selected":
		count, err := h.tasks.RestoreMany(ctx, h.selection.Selected())
		if err != nil {
			return nil, err
		}
		h.selection.Exit()
		return CountResponse{Count: count}, nil

	case "delete_selected":
		count, err := h.tasks.Delete(ctx, h.selection.Selected())
		if err != nil {
			return nil, err
		}
		h.selection.Exit()
		return CountResponse{Count: count}, nil

	case "export_backup":
		filename, data, err := h.backups.Export(ctx)
		if err != nil {
			return nil, err
		}
		return FileResponse{Filename: filename, Content: string(data)}, nil

	case "import_backup":
		var req ImportBackupParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		report, err := h.backups.Restore(ctx, []byte(req.Content))
		if err != nil {
			return nil, err
		}
		return report, nil

	case "export_activity_log":
		filename, data, err := h.activity.ExportCSV(ctx)
		if err != nil {
			return nil, err
		}
		return FileResponse{Filename: filename, Content: string(data)}, nil

	case "generate_report":
		var req GenerateReportParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		report, err := h.exports.Generate(ctx, task.Kind(req.Kind), req.Desde, req.Hasta)
		if err != nil {
			return nil, err
		}
		csv, err := export.ReportCSV(report)
		if err != nil {
			return nil, err
		}
		return ReportResponse{
			Filename: h.exports.Filename(task.Kind(req.Kind)),
			Report:   report,
			CSV:      string(csv),
		}, nil

	case "invgate_report":
		var req KindParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rows, err := h.exports.GenerateInvGate(ctx, task.Kind(req.Kind))
		if err != nil {
			return nil, err
		}
		csv, err := export.InvGateCSV(rows)
		if err != nil {
			return nil, err
		}
		return InvGateResponse{
			Filename: h.exports.InvGateFilename(task.Kind(req.Kind)),
			Rows:     rows,
			CSV:      string(csv),
		}, nil

	case "get_statistics":
		var req StatisticsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		groups := h.exports.Statistics(ctx, export.StatisticsOptions{
			Desde:               req.Desde,
			Hasta:               req.Hasta,
			Category:            req.Category,
			IncludeIncidencias:  req.IncludeIncidencias,
			IncludeAsignaciones: req.IncludeAsignaciones,
		})
		return groups, nil

	default:
		return nil, &APIError{Code: "UNKNOWN_METHOD", Message: fmt.Sprintf("unknown method %q", method)}
	}
}

func (h *Handler) selectionResponse() SelectionResponse {
	return SelectionResponse{
		Active:   h.selection.Active(),
		Selected: h.selection.Selected(),
		Count:    h.selection.Count(),
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: fmt.Sprintf("invalid parameters: %v", err)}
	}
	return nil
}
