package envconf

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedConfig struct {
	DSN string `env:"TEST_ENVCONF_DSN" envDefault:"postgres://localhost:5432/app"`
}

type testConfig struct {
	Port     uint16        `env:"TEST_ENVCONF_PORT" envDefault:"3000"`
	Secret   string        `env:"TEST_ENVCONF_SECRET"`
	Level    slog.Level    `env:"TEST_ENVCONF_LEVEL" envDefault:"INFO"`
	Timeout  time.Duration `env:"TEST_ENVCONF_TIMEOUT" envDefault:"10s"`
	Postgres nestedConfig
}

//nolint:paralleltest
func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("TEST_ENVCONF_SECRET", "hunter2")
	t.Setenv("TEST_ENVCONF_PORT", "8080")

	cfg := new(testConfig)
	require.NoError(t, Load(cfg))

	assert.Equal(t, uint16(8080), cfg.Port, "set variables win over defaults")
	assert.Equal(t, "hunter2", cfg.Secret)
	assert.Equal(t, slog.LevelInfo, cfg.Level, "TextUnmarshaler types accept defaults")
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "postgres://localhost:5432/app", cfg.Postgres.DSN, "nested structs are loaded too")
}

//nolint:paralleltest
func TestLoad_MissingRequired(t *testing.T) {
	cfg := new(testConfig)

	err := Load(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "TEST_ENVCONF_SECRET")
}

//nolint:paralleltest
func TestLoad_ParseError(t *testing.T) {
	t.Setenv("TEST_ENVCONF_SECRET", "hunter2")
	t.Setenv("TEST_ENVCONF_PORT", "not-a-port")

	cfg := new(testConfig)

	err := Load(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_ENVCONF_PORT")
}
