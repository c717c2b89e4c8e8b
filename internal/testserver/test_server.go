// Package testserver assembles the full stack (sqlite, domain
// services, MCP server) for functional tests.
package testserver

import (
	"context"
	"fmt"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/forzaops/registro/internal/domain/activity"
	"github.com/forzaops/registro/internal/domain/backup"
	"github.com/forzaops/registro/internal/domain/selection"
	"github.com/forzaops/registro/internal/domain/task"
	"github.com/forzaops/registro/internal/export"
	"github.com/forzaops/registro/internal/mcp"
	"github.com/forzaops/registro/internal/sqlite"
)

type TestServer struct {
	DB       *sqlite.DB
	Tasks    *task.Service
	Activity *activity.Service
	Server   *sdkmcp.Server
}

func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	taskRepo := sqlite.NewTaskRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	activitySvc := activity.NewService(activityRepo, nil)
	taskSvc := task.NewService(taskRepo, activitySvc, nil, nil)
	_, err = taskSvc.Load(context.Background())
	require.NoError(t, err)

	backupSvc := backup.NewEngine(taskSvc, activitySvc, "", nil)
	exportSvc := export.NewService(taskSvc, activitySvc, nil)

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Tasks:     taskSvc,
			Activity:  activitySvc,
			Backups:   backupSvc,
			Exports:   exportSvc,
			Selection: selection.New(),
		},
		Actions:       activitySvc,
		TransportMode: "stdio",
	})

	ts := &TestServer{
		DB:       db,
		Tasks:    taskSvc,
		Activity: activitySvc,
		Server:   server,
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return ts
}

// Connect wires an SDK client to the server over in-memory transports
// and returns the client session.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := ts.Server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "registro-test", Version: "0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = clientSession.Close()
		_ = serverSession.Wait()
	})

	return clientSession
}
