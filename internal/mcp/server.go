package mcp

import (
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/forzaops/registro/internal/domain/task"
)

// Services contains all domain services needed by MCP.
type Services struct {
	Tasks     TaskService
	Activity  ActivityService
	Backups   BackupService
	Exports   ExportService
	Selection Selection
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Actions       task.ActionLogger
	AuthEnabled   bool
	Credentials   Credentials
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "registro",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode is local-only; the login gate applies to HTTP.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Credentials, cfg.Actions))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	handler := NewHandler(
		cfg.Services.Tasks,
		cfg.Services.Activity,
		cfg.Services.Backups,
		cfg.Services.Exports,
		cfg.Services.Selection,
	)
	registerTools(server, handler)

	return server
}

const serverInstructions = `Registro tracks operational incidents (incidencias) and work
assignments (asignaciones) as numbered records with a two-state
lifecycle (en-progreso / resuelta).

Typical flow: list_records to see a collection, create_record to add,
change_status to resolve or reopen, archive_record to move records out
of the active view. Use the selection_* tools followed by
archive_selected / restore_selected / delete_selected for bulk work.
export_backup and import_backup move the full dataset as one JSON
document; generate_report, invgate_report and get_statistics build the
derived views.`
