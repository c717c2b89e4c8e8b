package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("REGISTRO_CONFIG_PATH", "")
	t.Setenv("REGISTRO_DB_PATH", filepath.Join(dir, "registro.db"))
	t.Setenv("REGISTRO_BACKUP_DIR", filepath.Join(dir, "backups"))
	t.Setenv("REGISTRO_TRANSPORT", "")
	t.Setenv("REGISTRO_AUTH_ENABLED", "")
	t.Setenv("REGISTRO_AUTH_USERNAME", "")
	t.Setenv("REGISTRO_AUTH_PASSCODE", "")
	t.Setenv("REGISTRO_LOG_LEVEL", "")
}

func TestNewApp_TransportOverride(t *testing.T) {
	testEnv(t)

	app, err := newApp(context.Background(), "http")
	require.NoError(t, err)
	defer app.Close()

	require.Equal(t, "http", app.Config.Transport.Mode)
	// The override stays inside the config; the process environment
	// is left alone.
	require.Empty(t, os.Getenv("REGISTRO_TRANSPORT"))
}

func TestNewApp_EmptyOverrideKeepsConfigured(t *testing.T) {
	testEnv(t)

	app, err := newApp(context.Background(), "")
	require.NoError(t, err)
	defer app.Close()

	require.Equal(t, "stdio", app.Config.Transport.Mode)
}

func TestNewApp_InvalidTransportOverride(t *testing.T) {
	testEnv(t)

	_, err := newApp(context.Background(), "carrier-pigeon")
	require.ErrorContains(t, err, "invalid transport mode")
}
