// Package monitor periodically reports process health: runtime memory use,
// goroutine count, and solver cache occupancy. Each tick rewrites a status
// file so operators can poll long field runs without attaching a debugger.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/shotlab/cargoshot/internal/cache"
)

// StatusFileName is the file rewritten on every tick.
const StatusFileName = "status.json"

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	Logger    *slog.Logger
	Cache     *cache.ResultCache // optional
	StatusDir string
	Interval  time.Duration
}

// Status is one snapshot of process health.
type Status struct {
	Time           time.Time `json:"time"`
	Goroutines     int       `json:"goroutines"`
	HeapAllocBytes uint64    `json:"heapAllocBytes"`
	NumGC          uint32    `json:"numGC"`
	CacheEntries   int       `json:"cacheEntries"`
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.Mutex
	stopChan  chan struct{}
}

// NewService creates a monitor service. Call Start to begin reporting.
func NewService(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Snapshot collects the current process health.
func (s *Service) Snapshot() Status {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	st := Status{
		Time:           time.Now(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: mem.HeapAlloc,
		NumGC:          mem.NumGC,
	}
	if s.deps.Cache != nil {
		st.CacheEntries = s.deps.Cache.Len()
	}
	return st
}

// Start launches the status reporting goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	if err := os.MkdirAll(s.deps.StatusDir, 0755); err != nil {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return fmt.Errorf("creating status dir: %w", err)
	}

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("starting status monitor", "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := s.writeStatus(); err != nil {
					s.deps.Logger.Error("writing status file", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
		s.isRunning = false
	}
}

func (s *Service) writeStatus() error {
	out, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.deps.StatusDir, StatusFileName), out, 0644)
}
