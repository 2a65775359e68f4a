package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shotlab/cargoshot/internal/cache"
	"github.com/shotlab/cargoshot/pkg/core"
)

func TestSnapshot(t *testing.T) {
	c := cache.NewResultCache()
	c.Put(core.Position2D{X: -3, Y: 0.5}, core.AngSpeedSpace{Area: 1})

	s := NewService(Dependencies{Cache: c, StatusDir: t.TempDir()})
	st := s.Snapshot()

	if st.Goroutines < 1 {
		t.Errorf("Goroutines = %d, want at least 1", st.Goroutines)
	}
	if st.HeapAllocBytes == 0 {
		t.Error("HeapAllocBytes = 0, want nonzero")
	}
	if st.CacheEntries != 1 {
		t.Errorf("CacheEntries = %d, want 1", st.CacheEntries)
	}
}

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	s := NewService(Dependencies{StatusDir: dir, Interval: 10 * time.Millisecond})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("IsRunning() = false after Start()")
	}

	// Starting twice is a no-op.
	if err := s.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	// The file is rewritten every tick, so keep retrying until a complete
	// snapshot is read.
	statusPath := filepath.Join(dir, StatusFileName)
	deadline := time.Now().Add(2 * time.Second)
	var st Status
	for {
		raw, err := os.ReadFile(statusPath)
		if err == nil && json.Unmarshal(raw, &st) == nil && !st.Time.IsZero() {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no valid status snapshot appeared")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}
	// Stopping twice is safe.
	s.Stop()
}
