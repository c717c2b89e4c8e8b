// Package export builds report documents over the record collections.
// Reports are returned as structured values plus a CSV rendering; PDF
// and spreadsheet layout is left to external renderers.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/forzaops/registro/internal/domain/task"
)

// Collections is the slice of the task service the exporters need.
type Collections interface {
	Snapshot() (incidencias, asignaciones []task.Task)
}

// Service builds reports.
type Service struct {
	collections Collections
	actions     task.ActionLogger
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(collections Collections, actions task.ActionLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		collections: collections,
		actions:     actions,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock overrides the wall clock, for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Summary counts records by state within a report.
type Summary struct {
	Total      int `json:"total"`
	EnProgreso int `json:"enProgreso"`
	Resueltas  int `json:"resueltas"`
}

// Row is one detail line of a date-range report.
type Row struct {
	Consecutivo int    `json:"consecutivo"`
	Titulo      string `json:"titulo"`
	Creacion    string `json:"creacion"`
	Resolucion  string `json:"resolucion"`
	SLA         string `json:"sla"`
	Clientes    string `json:"clientes"`
	Detalle     string `json:"detalle"`
}

// Report is a date-range report over one collection.
type Report struct {
	Kind    task.Kind `json:"kind"`
	Desde   string    `json:"desde"`
	Hasta   string    `json:"hasta"`
	Summary Summary   `json:"summary"`
	Rows    []Row     `json:"rows"`
}

// Generate builds the date-range report for one collection. Dates are
// YYYY-MM-DD and the range is inclusive on both ends; records are
// matched on their creation date.
func (s *Service) Generate(ctx context.Context, kind task.Kind, desde, hasta string) (Report, error) {
	tasks, label, err := s.collection(kind)
	if err != nil {
		return Report{}, err
	}

	report := Report{Kind: kind, Desde: desde, Hasta: hasta, Rows: []Row{}}
	for i := range tasks {
		t := &tasks[i]
		if t.Fecha < desde || t.Fecha > hasta {
			continue
		}
		report.Summary.Total++
		if t.Resolved() {
			report.Summary.Resueltas++
		} else {
			report.Summary.EnProgreso++
		}
		report.Rows = append(report.Rows, Row{
			Consecutivo: t.Consecutivo,
			Titulo:      t.Nombre,
			Creacion:    t.Fecha + " " + t.Hora,
			Resolucion:  resolutionDatetime(t),
			SLA:         task.SLAFor(t),
			Clientes:    joinOrDash(t.Clientes),
			Detalle:     t.Detail(),
		})
	}

	if s.actions != nil {
		s.actions.LogAction(ctx, fmt.Sprintf("Generación de reporte para %s (Rango: %s - %s).", label, desde, hasta))
	}
	return report, nil
}

// Filename returns the dated artifact name for a report over kind.
func (s *Service) Filename(kind task.Kind) string {
	label := "Incidencias"
	if kind == task.KindAsignacion {
		label = "Asignaciones"
	}
	return fmt.Sprintf("reporte_%s_%s.csv", label, s.now().Format("2006-01-02"))
}

func (s *Service) collection(kind task.Kind) ([]task.Task, string, error) {
	incidencias, asignaciones := s.collections.Snapshot()
	switch kind {
	case task.KindIncidencia:
		return incidencias, "incidencias", nil
	case task.KindAsignacion:
		return asignaciones, "asignaciones", nil
	default:
		return nil, "", fmt.Errorf("%w: unknown kind %q", task.ErrInvalidKind, kind)
	}
}

// resolutionDatetime renders "fecha hora" for resolved records, with
// the hour omitted when absent, and "-" otherwise.
func resolutionDatetime(t *task.Task) string {
	if !t.Resolved() || t.FechaResuelta == "" {
		return "-"
	}
	if t.HoraResuelta == "" {
		return t.FechaResuelta
	}
	return t.FechaResuelta + " " + t.HoraResuelta
}

func joinOrDash(values []string) string {
	joined := strings.Join(values, ", ")
	if joined == "" {
		return "-"
	}
	return joined
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func sortByConsecutivoDesc(tasks []task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Consecutivo > tasks[j].Consecutivo
	})
}
