package mcp

import (
	"github.com/forzaops/registro/internal/domain/task"
	"github.com/forzaops/registro/internal/export"
)

type CreateRecordParams struct {
	Kind                string   `json:"kind"`
	Nombre              string   `json:"nombre"`
	Fecha               string   `json:"fecha"`
	Hora                string   `json:"hora"`
	Clientes            []string `json:"clientes,omitempty"`
	PersonalInvolucrado string   `json:"personal_involucrado,omitempty"`
	DeviceID            string   `json:"device_id,omitempty"`
	Category            string   `json:"category,omitempty"`
	OtherCategory       string   `json:"other_category,omitempty"`
	Incidencia          string   `json:"incidencia,omitempty"`
	Solucion            string   `json:"solucion,omitempty"`
	Requerimiento       string   `json:"requerimiento,omitempty"`
}

type UpdateRecordParams struct {
	ID                  string   `json:"id"`
	Nombre              *string  `json:"nombre,omitempty"`
	Fecha               *string  `json:"fecha,omitempty"`
	Hora                *string  `json:"hora,omitempty"`
	Clientes            []string `json:"clientes,omitempty"`
	PersonalInvolucrado *string  `json:"personal_involucrado,omitempty"`
	DeviceID            *string  `json:"device_id,omitempty"`
	Category            *string  `json:"category,omitempty"`
	OtherCategory       *string  `json:"other_category,omitempty"`
	Incidencia          *string  `json:"incidencia,omitempty"`
	Solucion            *string  `json:"solucion,omitempty"`
	Requerimiento       *string  `json:"requerimiento,omitempty"`
}

type RecordIDParams struct {
	ID string `json:"id"`
}

type RecordIDsParams struct {
	IDs []string `json:"ids"`
}

type VisibleIDsParams struct {
	VisibleIDs []string `json:"visible_ids"`
}

type EditResolutionParams struct {
	ID            string `json:"id"`
	FechaResuelta string `json:"fecha_resuelta"`
	HoraResuelta  string `json:"hora_resuelta"`
}

type CategorizeParams struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	OtherCategory string `json:"other_category,omitempty"`
}

type ListRecordsParams struct {
	Kind   string `json:"kind"`
	View   string `json:"view,omitempty"`
	Status string `json:"status,omitempty"`
	Sort   string `json:"sort,omitempty"`
}

type KindParams struct {
	Kind string `json:"kind"`
}

type ImportBackupParams struct {
	Content string `json:"content"`
}

type GenerateReportParams struct {
	Kind  string `json:"kind"`
	Desde string `json:"desde"`
	Hasta string `json:"hasta"`
}

type StatisticsParams struct {
	Desde               string `json:"desde,omitempty"`
	Hasta               string `json:"hasta,omitempty"`
	Category            string `json:"category,omitempty"`
	IncludeIncidencias  bool   `json:"include_incidencias"`
	IncludeAsignaciones bool   `json:"include_asignaciones"`
}

// TaskResponse is the wire shape of a record, enriched with the
// computed SLA and category label.
type TaskResponse struct {
	task.Task
	SLA           string `json:"sla"`
	CategoryLabel string `json:"categoryLabel,omitempty"`
}

func taskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		Task:          t.Clone(),
		SLA:           task.SLAFor(t),
		CategoryLabel: t.CategoryLabel(),
	}
}

type CountResponse struct {
	Count int `json:"count"`
}

type SelectionResponse struct {
	Active   bool     `json:"active"`
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
}

// FileResponse carries a generated artifact inline.
type FileResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type ReportResponse struct {
	Filename string        `json:"filename"`
	Report   export.Report `json:"report"`
	CSV      string        `json:"csv"`
}

type InvGateResponse struct {
	Filename string              `json:"filename"`
	Rows     []export.InvGateRow `json:"rows"`
	CSV      string              `json:"csv"`
}

func categoryPtr(v *string) *task.Category {
	if v == nil {
		return nil
	}
	c := task.Category(*v)
	return &c
}
