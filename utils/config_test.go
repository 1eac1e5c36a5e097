package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.False(t, cfg.WhatsApp.Enabled)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"port": 9000},
		"storage": {"backend": "sqlite", "sqlitePath": "/tmp/r.sqlite"},
		"analytics": {"timezone": "UTC", "customMetrics": {"avg": "stats.totals.reactions / 2"}}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/r.sqlite", cfg.Storage.SQLitePath)
	assert.Equal(t, "reactions.db", cfg.Storage.BoltPath)
	assert.Equal(t, "stats.totals.reactions / 2", cfg.Analytics.CustomMetrics["avg"])

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	for name, body := range map[string]string{
		"json":     `{"server": `,
		"backend":  `{"storage": {"backend": "redis"}}`,
		"timezone": `{"analytics": {"timezone": "Mars/Olympus"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 3306, User: "u", Password: "p", DBName: "x"}
	assert.Equal(t, "u:p@tcp(db:3306)/x?parseTime=true", c.GetDSN())
}
