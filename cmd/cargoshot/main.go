// Command cargoshot is the command-line presentation boundary of the shot
// planning engine. It wires configuration, logging, telemetry, and the
// engine service, then prints computed results as JSON on stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/shotlab/cargoshot/internal/cache"
	"github.com/shotlab/cargoshot/internal/config"
	"github.com/shotlab/cargoshot/internal/engine"
	"github.com/shotlab/cargoshot/internal/flight"
	"github.com/shotlab/cargoshot/internal/geometry"
	"github.com/shotlab/cargoshot/internal/influx"
	"github.com/shotlab/cargoshot/internal/logging"
	"github.com/shotlab/cargoshot/internal/monitor"
	intOtel "github.com/shotlab/cargoshot/internal/otel"
	"github.com/shotlab/cargoshot/internal/solver"
)

// Version can be set at build time via ldflags.
var Version = "0.0.1"

var sessionStart = time.Now()

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := config.Load("."); err != nil {
		return err
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	logFile, err := os.Create(logging.LogFilePath(logsDir, "cargoshot", sessionStart))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	otelProvider, err := setupOtel(logsDir)
	if err != nil {
		return err
	}
	defer otelProvider.Shutdown(context.Background())

	logManager := logging.NewManager()
	logManager.Setup(os.Stderr, logFile, config.GetString("logLevel"), otelProvider.LoggerProvider())
	logger := logManager.Logger()
	logger.Info("Starting up", "version", Version)

	var influxManager *influx.Manager
	if config.GetBool("influx.enabled") {
		zlog := zerolog.New(logFile).With().Timestamp().Logger()
		influxManager = influx.NewManager(zlog, filepath.Join(logsDir, "influx_backup.gz"))
		if err := influxManager.Connect(); err != nil {
			logger.Warn("InfluxDB unavailable, continuing without performance recording", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	geom := geometry.FromViper()
	resultCache := cache.NewResultCache()
	svc, err := engine.NewService(
		engine.Dependencies{
			Geometry: geom,
			Logger:   logger,
			Influx:   influxManager,
			Cache:    resultCache,
			Workers:  config.GetInt("field.workers"),
		},
		[]solver.Option{
			solver.WithAngleBounds(
				config.GetFloat64("solver.angleFloorDeg"),
				config.GetFloat64("solver.angleCeilDeg"),
			),
			solver.WithSamples(config.GetInt("solver.samples")),
		},
		[]flight.Option{
			flight.WithTimeSpan(config.GetFloat64("sim.timeSpan")),
			flight.WithMaxStep(config.GetFloat64("sim.maxStep")),
			flight.WithTolerance(config.GetFloat64("sim.tolerance")),
		},
	)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	if config.GetBool("monitor.enabled") {
		mon := monitor.NewService(monitor.Dependencies{
			Logger:    logger,
			Cache:     resultCache,
			StatusDir: logsDir,
			Interval:  time.Duration(config.GetFloat64("monitor.intervalSeconds") * float64(time.Second)),
		})
		if err := mon.Start(); err != nil {
			return fmt.Errorf("starting monitor: %w", err)
		}
		defer mon.Stop()
	}

	d, err := newDispatcher(svc, logger)
	if err != nil {
		return err
	}
	return runCommand(d, args)
}

func setupOtel(logsDir string) (*intOtel.Provider, error) {
	cfg := intOtel.Config{
		Enabled:      config.GetBool("otel.enabled"),
		BatchTimeout: 5 * time.Second,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     config.GetBool("otel.insecure"),
	}
	if cfg.Enabled {
		otelFile, err := os.Create(filepath.Join(logsDir, "cargoshot.otel.log"))
		if err != nil {
			return nil, fmt.Errorf("creating otel log file: %w", err)
		}
		cfg.LogWriter = otelFile
	}

	provider, err := intOtel.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating otel provider: %w", err)
	}
	return provider, nil
}
