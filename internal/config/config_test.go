package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
port = 5433
dbname = "bots"

[auth]
jwt_secret = "from-file"

[booking]
timezone = "America/Argentina/Buenos_Aires"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, time.Hour, cfg.Booking.DefaultDuration())
	assert.True(t, cfg.Booking.EnforceCancellationWindow)
	assert.Contains(t, cfg.Database.DSN(), "dbname=bots")

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Argentina/Buenos_Aires", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOTADMIN_AUTH_JWT_SECRET", "from-env")
	t.Setenv("BOTADMIN_DATABASE_PORT", "6543")
	t.Setenv("BOTADMIN_REDIS_ENABLED", "true")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_MissingSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "[server]\nhttp_port = 1\n"))
	assert.Error(t, err)
}

func TestLoad_BadTimezone(t *testing.T) {
	_, err := Load(writeConfig(t, "[auth]\njwt_secret = \"x\"\n[booking]\ntimezone = \"Mars/Olympus\"\n"))
	assert.Error(t, err)
}
