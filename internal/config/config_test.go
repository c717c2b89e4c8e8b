package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// clearEnv blanks every REGISTRO_* variable so runner environments
// cannot leak into default assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REGISTRO_CONFIG_PATH",
		"REGISTRO_SERVER_HOST",
		"REGISTRO_SERVER_PORT",
		"REGISTRO_DB_PATH",
		"REGISTRO_BACKUP_DIR",
		"REGISTRO_LOG_LEVEL",
		"REGISTRO_AUTH_ENABLED",
		"REGISTRO_AUTH_USERNAME",
		"REGISTRO_AUTH_PASSCODE",
		"REGISTRO_TRANSPORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "registro.db", cfg.DB.Path)
	require.Equal(t, "backups", cfg.Backup.Dir)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "321123", cfg.Auth.Passcode)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: 9000\ndb:\n  path: /tmp/r.db\nauth:\n  passcode: \"654321\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("REGISTRO_CONFIG_PATH", path)
	t.Setenv("REGISTRO_SERVER_PORT", "9100")
	t.Setenv("REGISTRO_BACKUP_DIR", "/var/backups/registro")

	cfg, err := Load()
	require.NoError(t, err)
	// Env wins over file, file wins over defaults.
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "/tmp/r.db", cfg.DB.Path)
	require.Equal(t, "/var/backups/registro", cfg.Backup.Dir)
	require.Equal(t, "654321", cfg.Auth.Passcode)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	t.Setenv("REGISTRO_CONFIG_PATH", path)

	_, err := Load()
	require.ErrorContains(t, err, "parse config file")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("REGISTRO_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestLoad_InvalidPasscode(t *testing.T) {
	t.Setenv("REGISTRO_AUTH_PASSCODE", "12ab56")

	_, err := Load()
	require.ErrorContains(t, err, "numeric")
}

func TestLoad_ShortPasscode(t *testing.T) {
	t.Setenv("REGISTRO_AUTH_PASSCODE", "123")

	_, err := Load()
	require.ErrorContains(t, err, "6 digits")
}

func TestLoad_AuthDisabledSkipsValidation(t *testing.T) {
	t.Setenv("REGISTRO_AUTH_ENABLED", "false")
	t.Setenv("REGISTRO_AUTH_PASSCODE", "x")

	_, err := Load()
	require.NoError(t, err)
}
