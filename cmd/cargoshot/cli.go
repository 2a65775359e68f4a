package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shotlab/cargoshot/internal/dispatcher"
	"github.com/shotlab/cargoshot/internal/engine"
	"github.com/shotlab/cargoshot/internal/handlers"
)

const usage = `usage:
  cargoshot trajectory <x> <vx> <y> <vy>   simulate a shot and classify it
  cargoshot angspeed <x> <y>               compute the (angle, speed) success band
  cargoshot field [x0 x1 dx y0 y1 dy]      compute the forgiveness field (default grid without args)
  cargoshot geometry                       print the configured physical parameters
  cargoshot version                        print the build version
`

// newDispatcher builds the command router and registers all engine handlers.
func newDispatcher(svc *engine.Service, logger *slog.Logger) (*dispatcher.Dispatcher, error) {
	d, err := dispatcher.New(logger)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}
	handlers.NewService(handlers.Dependencies{
		Engine:  svc,
		Version: Version,
	}).Register(d)
	return d, nil
}

// runCommand dispatches the command line and prints the result as JSON.
func runCommand(d *dispatcher.Dispatcher, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command provided")
	}
	if !d.HasHandler(args[0]) {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}

	result, err := d.Dispatch(dispatcher.Event{
		Command:   args[0],
		Args:      args[1:],
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
