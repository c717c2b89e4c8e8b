package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes a callable tool
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	kindProperty := map[string]any{
		"type":        "string",
		"description": "Collection: incidencia or asignacion",
		"enum":        []string{"incidencia", "asignacion"},
	}
	idProperty := map[string]any{
		"type":        "string",
		"description": "Record ID",
	}
	categoryProperty := map[string]any{
		"type":        "string",
		"description": "Category value",
		"enum": []string{
			"Falla Operador", "Falla Operacion Forza", "Suciedad",
			"Bolsa con fallas", "Otros",
		},
	}

	return []ToolDefinition{
		// Records
		{
			Name:        "create_record",
			Description: "Create a new record in one of the two collections with the next consecutive number",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":   kindProperty,
					"nombre": map[string]any{"type": "string", "description": "Record title"},
					"fecha":  map[string]any{"type": "string", "description": "Creation date YYYY-MM-DD"},
					"hora":   map[string]any{"type": "string", "description": "Creation time HH:MM"},
					"clientes": map[string]any{
						"type":        "array",
						"description": "Affected clients (duplicates are dropped)",
						"items":       map[string]any{"type": "string"},
					},
					"personal_involucrado": map[string]any{"type": "string", "description": "Staff involved"},
					"device_id":            map[string]any{"type": "string", "description": "Device identifier"},
					"category":             categoryProperty,
					"other_category":       map[string]any{"type": "string", "description": "Free-text category, only honored with Otros"},
					"incidencia":           map[string]any{"type": "string", "description": "Incident description (incidents only)"},
					"solucion":             map[string]any{"type": "string", "description": "Solution text (incidents only)"},
					"requerimiento":        map[string]any{"type": "string", "description": "Requirement text (assignments only)"},
				},
				"required": []string{"kind", "nombre", "fecha", "hora"},
			},
		},
		{
			Name:        "update_record",
			Description: "Edit record fields; resolution timestamps, state and numbering are preserved",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":     idProperty,
					"nombre": map[string]any{"type": "string"},
					"fecha":  map[string]any{"type": "string"},
					"hora":   map[string]any{"type": "string"},
					"clientes": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"personal_involucrado": map[string]any{"type": "string"},
					"device_id":            map[string]any{"type": "string"},
					"category":             categoryProperty,
					"other_category":       map[string]any{"type": "string"},
					"incidencia":           map[string]any{"type": "string"},
					"solucion":             map[string]any{"type": "string"},
					"requerimiento":        map[string]any{"type": "string"},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "change_status",
			Description: "Toggle a record between en-progreso and resuelta, stamping or clearing resolution timestamps",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "edit_resolution_time",
			Description: "Overwrite the resolution date and time of a resolved record",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":             idProperty,
					"fecha_resuelta": map[string]any{"type": "string", "description": "Resolution date YYYY-MM-DD"},
					"hora_resuelta":  map[string]any{"type": "string", "description": "Resolution time HH:MM"},
				},
				"required": []string{"id", "fecha_resuelta", "hora_resuelta"},
			},
		},
		{
			Name:        "categorize_record",
			Description: "Assign a category; the free-text value is kept only for Otros",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":             idProperty,
					"category":       categoryProperty,
					"other_category": map[string]any{"type": "string"},
				},
				"required": []string{"id", "category"},
			},
		},
		{
			Name:        "archive_record",
			Description: "Move a record to the archived view",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "unarchive_record",
			Description: "Restore a record from the archived view",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "duplicate_record",
			Description: "Build a draft copy of a record ('<nombre> (Copia)', now timestamps); nothing is saved until create_record",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "transfer_record",
			Description: "Copy an assignment into the incidents collection as '[Transferido] <nombre>'; the assignment stays",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "delete_records",
			Description: "Permanently delete records by ID; remaining numbering is left untouched",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"ids": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []string{"ids"},
			},
		},
		{
			Name:        "list_records",
			Description: "List one collection filtered by view, state and sort order",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": kindProperty,
					"view": map[string]any{
						"type": "string",
						"enum": []string{"activas", "archivadas"},
					},
					"status": map[string]any{
						"type": "string",
						"enum": []string{"todos", "en-progreso", "resuelta"},
					},
					"sort": map[string]any{
						"type": "string",
						"enum": []string{"reciente", "antiguo"},
					},
				},
				"required": []string{"kind"},
			},
		},
		{
			Name:        "get_record",
			Description: "Get one record by ID, including its computed SLA",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},

		// Selection
		{
			Name:        "selection_enter",
			Description: "Enter selection mode with one record selected, replacing any previous selection",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "selection_toggle",
			Description: "Toggle one record in or out of the selection",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": idProperty,
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "selection_toggle_all",
			Description: "Select all visible records, or clear when every visible record is already selected",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"visible_ids": map[string]any{
						"type":        "array",
						"description": "IDs currently visible in the list",
						"items":       map[string]any{"type": "string"},
					},
				},
				"required": []string{"visible_ids"},
			},
		},
		{
			Name:        "selection_exit",
			Description: "Leave selection mode and clear the selection",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "archive_selected",
			Description: "Archive every selected record and leave selection mode",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "restore_selected",
			Description: "Restore every selected record from the archive and leave selection mode",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "delete_selected",
			Description: "Permanently delete every selected record and leave selection mode",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},

		// Backup
		{
			Name:        "export_backup",
			Description: "Export both collections as an indented JSON backup document",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "import_backup",
			Description: "Replace both collections with a backup document; missing keys restore empty, malformed JSON aborts",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"content": map[string]any{
						"type":        "string",
						"description": "Backup document JSON",
					},
				},
				"required": []string{"content"},
			},
		},

		// Activity and reports
		{
			Name:        "export_activity_log",
			Description: "Export the activity log as CSV with a Timestamp,Action header",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "generate_report",
			Description: "Build a date-range report for one collection: state summary plus detail rows with SLA",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind":  kindProperty,
					"desde": map[string]any{"type": "string", "description": "Range start YYYY-MM-DD"},
					"hasta": map[string]any{"type": "string", "description": "Range end YYYY-MM-DD"},
				},
				"required": []string{"kind", "desde", "hasta"},
			},
		},
		{
			Name:        "invgate_report",
			Description: "Build InvGate import rows (device, resolution, summary, description, solution) for one collection",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"kind": kindProperty,
				},
				"required": []string{"kind"},
			},
		},
		{
			Name:        "get_statistics",
			Description: "Group records by category over an optional date range and type filter",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"desde":    map[string]any{"type": "string"},
					"hasta":    map[string]any{"type": "string"},
					"category": map[string]any{"type": "string", "description": "Category label to keep (empty for all)"},
					"include_incidencias": map[string]any{
						"type": "boolean",
					},
					"include_asignaciones": map[string]any{
						"type": "boolean",
					},
				},
			},
		},
	}
}

// registerTools wires the catalog into the SDK server, dispatching
// every call through the handler.
func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schemaFromMap(def.InputSchema),
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			result, err := h.Handle(ctx, name, req.Params.Arguments)
			if err != nil {
				return errorResult(err), nil
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return errorResult(fmt.Errorf("encoding result: %w", err)), nil
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
			}, nil
		})
	}
}

func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	payload, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		payload = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(payload)}},
	}
}

func schemaFromMap(m map[string]any) *jsonschema.Schema {
	data, err := json.Marshal(m)
	if err != nil {
		panic(fmt.Sprintf("invalid tool schema: %v", err))
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		panic(fmt.Sprintf("invalid tool schema: %v", err))
	}
	return &schema
}
