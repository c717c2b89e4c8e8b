package task

import (
	"fmt"
	"strings"
	"time"
)

const datetimeLayout = "2006-01-02T15:04"

// SLA formats the elapsed time between creation and resolution as
// "<d>d <h>h <m>m", omitting zero-valued units ("0m" when the whole
// duration rounds to zero). It returns "-" when the task is unresolved,
// when either timestamp fails to parse, or when resolution precedes
// creation.
func SLA(fecha, hora, fechaResuelta, horaResuelta string) string {
	if fechaResuelta == "" || horaResuelta == "" {
		return "-"
	}
	start, err := time.Parse(datetimeLayout, fecha+"T"+hora)
	if err != nil {
		return "-"
	}
	end, err := time.Parse(datetimeLayout, fechaResuelta+"T"+horaResuelta)
	if err != nil {
		return "-"
	}
	if end.Before(start) {
		return "-"
	}

	diff := end.Sub(start)
	days := int(diff / (24 * time.Hour))
	diff -= time.Duration(days) * 24 * time.Hour
	hours := int(diff / time.Hour)
	diff -= time.Duration(hours) * time.Hour
	minutes := int(diff / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}

// SLAFor is a convenience wrapper over SLA for a task value.
func SLAFor(t *Task) string {
	return SLA(t.Fecha, t.Hora, t.FechaResuelta, t.HoraResuelta)
}
