package mcp

import (
	"errors"
	"fmt"

	"github.com/forzaops/registro/internal/domain/activity"
	"github.com/forzaops/registro/internal/domain/backup"
	"github.com/forzaops/registro/internal/domain/task"
	"github.com/forzaops/registro/internal/export"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, task.ErrTaskNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: "record not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, task.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "nombre, fecha and hora are required"}
	case errors.Is(err, task.ErrInvalidCategory):
		return &APIError{Code: "INVALID_CATEGORY", Message: "unknown category", RecoveryHint: "Use one of the fixed category values"}
	case errors.Is(err, task.ErrInvalidKind):
		return &APIError{Code: "INVALID_KIND", Message: "kind must be incidencia or asignacion"}
	case errors.Is(err, task.ErrNotAssignment):
		return &APIError{Code: "NOT_ASSIGNMENT", Message: "only assignments can be transferred"}
	case errors.Is(err, activity.ErrEmptyLog):
		return &APIError{Code: "EMPTY_LOG", Message: "activity log is empty"}
	case errors.Is(err, backup.ErrMalformedBackup):
		return &APIError{Code: "MALFORMED_BACKUP", Message: "backup file is not valid JSON", RecoveryHint: "Export a fresh backup and retry"}
	case errors.Is(err, export.ErrNoRecords):
		return &APIError{Code: "NO_RECORDS", Message: "no records to export"}
	default:
		return nil
	}
}
