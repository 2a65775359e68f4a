package cache

import (
	"testing"

	"github.com/shotlab/cargoshot/pkg/core"
)

func TestResultCache(t *testing.T) {
	c := NewResultCache()
	pt := core.Position2D{X: -3, Y: 0.5}

	if _, ok := c.Get(pt); ok {
		t.Fatal("Get() on empty cache returned ok")
	}

	want := core.AngSpeedSpace{Area: 1.5, Angles: []float64{48, 85}}
	c.Put(pt, want)

	got, ok := c.Get(pt)
	if !ok {
		t.Fatal("Get() after Put() returned !ok")
	}
	if got.Area != want.Area {
		t.Errorf("Area = %v, want %v", got.Area, want.Area)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	// Same point overwrites, distinct point adds.
	c.Put(pt, core.AngSpeedSpace{Area: 2})
	c.Put(core.Position2D{X: -4, Y: 0.5}, core.AngSpeedSpace{Area: 3})
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	got, _ = c.Get(pt)
	if got.Area != 2 {
		t.Errorf("Area after overwrite = %v, want 2", got.Area)
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len() after Reset() = %d, want 0", c.Len())
	}
}

func TestResultCache_Concurrent(t *testing.T) {
	c := NewResultCache()
	done := make(chan struct{})

	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			pt := core.Position2D{X: float64(-i), Y: 0.5}
			for j := 0; j < 100; j++ {
				c.Put(pt, core.AngSpeedSpace{Area: float64(j)})
				c.Get(pt)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if c.Len() != 8 {
		t.Errorf("Len() = %d, want 8", c.Len())
	}
}
