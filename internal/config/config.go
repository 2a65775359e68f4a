// Package config loads process configuration through viper with defaults
// matching the reference shot problem.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// ConfigFileName is the JSON config file searched for in the config directory.
const ConfigFileName = "cargoshot.cfg.json"

// Load reads configuration from the JSON file in configDir and sets default
// values. A missing config file is not an error; defaults apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("geometry.gravity", 9.81)
	viper.SetDefault("geometry.rimWidth", 1.04)
	viper.SetDefault("geometry.rimHeight", 1.83)
	viper.SetDefault("geometry.cargoRadius", 0.075)
	viper.SetDefault("geometry.cargoMass", 0.21)
	viper.SetDefault("geometry.dragCoefficient", 0.23)
	viper.SetDefault("geometry.airDensity", 1.225)

	viper.SetDefault("sim.timeSpan", 5.0)
	viper.SetDefault("sim.maxStep", 0.05)
	viper.SetDefault("sim.tolerance", 1e-8)

	viper.SetDefault("solver.angleFloorDeg", 5.0)
	viper.SetDefault("solver.angleCeilDeg", 85.0)
	viper.SetDefault("solver.samples", 50)

	viper.SetDefault("field.workers", 0) // 0 = NumCPU

	viper.SetDefault("monitor.enabled", false)
	viper.SetDefault("monitor.intervalSeconds", 1.0)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "cargoshot-metrics")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
