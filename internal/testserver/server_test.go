package testserver

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s returned error: %v", name, res.Content)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestToolCatalog(t *testing.T) {
	ts := New(t)
	session := ts.Connect(t)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tools.Tools), 25)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
		require.NotEmpty(t, tool.Description, "tool %s should have description", tool.Name)
		require.NotNil(t, tool.InputSchema, "tool %s should have inputSchema", tool.Name)
	}
	require.True(t, names["create_record"])
	require.True(t, names["transfer_record"])
	require.True(t, names["selection_toggle_all"])
	require.True(t, names["import_backup"])
	require.True(t, names["get_statistics"])
}

func TestCreateResolveArchiveFlow(t *testing.T) {
	ts := New(t)
	session := ts.Connect(t)

	out := callTool(t, session, "create_record", map[string]any{
		"kind":       "incidencia",
		"nombre":     "caída de línea",
		"fecha":      "2024-06-01",
		"hora":       "08:00",
		"incidencia": "parada total",
		"clientes":   []string{"acme", "acme"},
	})

	var created struct {
		ID          string   `json:"id"`
		Consecutivo int      `json:"consecutivo"`
		Estado      string   `json:"estado"`
		Clientes    []string `json:"clientes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Equal(t, 1, created.Consecutivo)
	require.Equal(t, "en-progreso", created.Estado)
	require.Equal(t, []string{"acme"}, created.Clientes)

	out = callTool(t, session, "change_status", map[string]any{"id": created.ID})
	var resolved struct {
		Estado        string `json:"estado"`
		FechaResuelta string `json:"fechaResuelta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resolved))
	require.Equal(t, "resuelta", resolved.Estado)
	require.NotEmpty(t, resolved.FechaResuelta)

	callTool(t, session, "archive_record", map[string]any{"id": created.ID})

	out = callTool(t, session, "list_records", map[string]any{"kind": "incidencia"})
	var active []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &active))
	require.Empty(t, active)
}

func TestToolErrorMapping(t *testing.T) {
	ts := New(t)
	session := ts.Connect(t)

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "get_record",
		Arguments: map[string]any{"id": "missing"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)

	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &apiErr))
	require.Equal(t, "RECORD_NOT_FOUND", apiErr.Code)
}

func TestActivityLogRecordsActions(t *testing.T) {
	ts := New(t)
	session := ts.Connect(t)

	callTool(t, session, "create_record", map[string]any{
		"kind":   "asignacion",
		"nombre": "traslado",
		"fecha":  "2024-06-01",
		"hora":   "08:00",
	})

	entries, err := ts.Activity.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Contains(t, entries[len(entries)-1].Action, "creado en asignaciones")
}
