package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// ReportCSV renders a date-range report: a short summary block, a
// blank row, then the detail table.
func ReportCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Periodo", r.Desde + " a " + r.Hasta},
		{"Total", strconv.Itoa(r.Summary.Total)},
		{"En Progreso", strconv.Itoa(r.Summary.EnProgreso)},
		{"Resueltas", strconv.Itoa(r.Summary.Resueltas)},
		{},
		{"#", "Título", "F. Creación", "F. Resolución", "SLA", "Clientes", "Detalle"},
	}
	for _, row := range r.Rows {
		records = append(records, []string{
			strconv.Itoa(row.Consecutivo),
			row.Titulo,
			row.Creacion,
			row.Resolucion,
			row.SLA,
			row.Clientes,
			row.Detalle,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("rendering report csv: %w", err)
	}
	return buf.Bytes(), nil
}

// InvGateCSV renders the InvGate rows under their fixed header.
func InvGateCSV(rows []InvGateRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Device ID", "Fecha y hora de resolución", "Resumen de la falla", "Descripción", "Solución"},
	}
	for _, row := range rows {
		records = append(records, []string{
			row.DeviceID,
			row.Resolucion,
			row.Resumen,
			row.Descripcion,
			row.Solucion,
		})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("rendering invgate csv: %w", err)
	}
	return buf.Bytes(), nil
}
