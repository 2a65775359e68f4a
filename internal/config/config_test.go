package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "./logs", GetString("logsDir"))
	assert.InDelta(t, 9.81, GetFloat64("geometry.gravity"), 1e-12)
	assert.InDelta(t, 1.04, GetFloat64("geometry.rimWidth"), 1e-12)
	assert.InDelta(t, 1.83, GetFloat64("geometry.rimHeight"), 1e-12)
	assert.InDelta(t, 0.075, GetFloat64("geometry.cargoRadius"), 1e-12)
	assert.InDelta(t, 0.21, GetFloat64("geometry.cargoMass"), 1e-12)
	assert.InDelta(t, 0.23, GetFloat64("geometry.dragCoefficient"), 1e-12)
	assert.InDelta(t, 1.225, GetFloat64("geometry.airDensity"), 1e-12)
	assert.InDelta(t, 5.0, GetFloat64("sim.timeSpan"), 1e-12)
	assert.InDelta(t, 0.05, GetFloat64("sim.maxStep"), 1e-12)
	assert.Equal(t, 50, GetInt("solver.samples"))
	assert.Equal(t, 0, GetInt("field.workers"))
	assert.False(t, GetBool("influx.enabled"))
	assert.False(t, GetBool("otel.enabled"))
}

func TestLoad_FileOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"geometry": {"gravity": 1.62, "dragCoefficient": 0.5},
		"solver": {"samples": 100},
		"influx": {"enabled": true, "host": "influx.internal"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(cfg), 0o644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.InDelta(t, 1.62, GetFloat64("geometry.gravity"), 1e-12)
	assert.InDelta(t, 0.5, GetFloat64("geometry.dragCoefficient"), 1e-12)
	assert.Equal(t, 100, GetInt("solver.samples"))
	assert.True(t, GetBool("influx.enabled"))
	assert.Equal(t, "influx.internal", GetString("influx.host"))

	// Keys absent from the file keep their defaults.
	assert.InDelta(t, 1.83, GetFloat64("geometry.rimHeight"), 1e-12)
	assert.Equal(t, "./logs", GetString("logsDir"))
}

func TestLoad_MalformedFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not json"), 0o644))

	assert.Error(t, Load(dir))
}
