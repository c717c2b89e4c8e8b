package export

import (
	"context"
	"fmt"

	"github.com/forzaops/registro/internal/domain/task"
)

// InvGateRow matches the ticket import layout expected by InvGate.
// Empty fields render as "-"; assignments never carry a solution.
type InvGateRow struct {
	DeviceID    string `json:"deviceId"`
	Resolucion  string `json:"resolucion"`
	Resumen     string `json:"resumen"`
	Descripcion string `json:"descripcion"`
	Solucion    string `json:"solucion"`
}

// GenerateInvGate builds the InvGate import rows for one full
// collection. Unlike the date-range report it takes no filter and
// refuses to run over an empty collection.
func (s *Service) GenerateInvGate(ctx context.Context, kind task.Kind) ([]InvGateRow, error) {
	tasks, label, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no %s", ErrNoRecords, label)
	}

	rows := make([]InvGateRow, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
		resolution := "-"
		if t.FechaResuelta != "" && t.HoraResuelta != "" {
			resolution = t.FechaResuelta + " " + t.HoraResuelta
		}
		solution := "-"
		if t.Kind == task.KindIncidencia {
			solution = orDash(t.Solucion)
		}
		rows = append(rows, InvGateRow{
			DeviceID:    orDash(t.DeviceID),
			Resolucion:  resolution,
			Resumen:     orDash(t.Nombre),
			Descripcion: orDash(t.Detail()),
			Solucion:    solution,
		})
	}

	if s.actions != nil {
		s.actions.LogAction(ctx, fmt.Sprintf("Generación de reporte InvGate para %s iniciada.", label))
	}
	return rows, nil
}

// InvGateFilename returns the dated artifact name for an InvGate
// export over kind.
func (s *Service) InvGateFilename(kind task.Kind) string {
	label := "Incidencias"
	if kind == task.KindAsignacion {
		label = "Asignaciones"
	}
	return fmt.Sprintf("reporte_invgate_%s_%s.csv", label, s.now().Format("2006-01-02"))
}
