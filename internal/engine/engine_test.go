package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/shotlab/cargoshot/internal/cache"
	"github.com/shotlab/cargoshot/internal/geometry"
	"github.com/shotlab/cargoshot/internal/solver"
	"github.com/shotlab/cargoshot/pkg/core"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Dependencies{
		Geometry: geometry.Default(),
		Cache:    cache.NewResultCache(),
	}, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestNewService_InvalidGeometry(t *testing.T) {
	_, err := NewService(Dependencies{Geometry: geometry.Geometry{}}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, geometry.ErrInvalidGeometry))
}

func TestComputeTrajectory(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.ComputeTrajectory(-3, 6, 0.5, 7)
	require.NoError(t, err)

	assert.Equal(t, len(res.X), len(res.Y))
	assert.GreaterOrEqual(t, len(res.X), 2)
	assert.Contains(t, []core.Outcome{core.OutcomeUndershot, core.OutcomeSuccess, core.OutcomeOvershot}, res.Result)
}

func TestComputeTrajectory_Diverged(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ComputeTrajectory(-3, math.Inf(1), 0.5, 7)
	require.Error(t, err)
}

func TestComputeAngularSpeedSpace(t *testing.T) {
	svc := newTestService(t)

	space, err := svc.ComputeAngularSpeedSpace(-3, 0.5)
	require.NoError(t, err)
	assert.Positive(t, space.Area)
	assert.Len(t, space.Angles, 50)
	assert.Equal(t, 1, svc.deps.Cache.Len())

	// Second call is served from the cache and must match exactly.
	again, err := svc.ComputeAngularSpeedSpace(-3, 0.5)
	require.NoError(t, err)
	assert.Equal(t, space.Area, again.Area)
	assert.Equal(t, space.Angles, again.Angles)
	assert.Equal(t, 1, svc.deps.Cache.Len())
}

func TestComputeAngularSpeedSpace_CacheHitCounted(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	svc := newTestService(t)

	_, err := svc.ComputeAngularSpeedSpace(-3, 0.5)
	require.NoError(t, err)
	_, err = svc.ComputeAngularSpeedSpace(-3, 0.5)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var hits, fresh int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "engine.operations.processed" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key("cached")); ok && v.AsBool() {
					hits += dp.Value
				} else {
					fresh += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), hits, "memoized call not counted")
	assert.Equal(t, int64(1), fresh, "fresh solve not counted")
}

func TestComputeAngularSpeedSpace_DomainError(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ComputeAngularSpeedSpace(-0.52, 0.2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, solver.ErrDomain))

	// Failures are not cached.
	assert.Equal(t, 0, svc.deps.Cache.Len())
}

func TestComputeField(t *testing.T) {
	svc := newTestService(t)

	field, err := svc.ComputeField([]float64{-4, -3}, []float64{0.2, 0.6, 1.0})
	require.NoError(t, err)

	require.Len(t, field.AreaGrid, 2)
	for _, row := range field.AreaGrid {
		require.Len(t, row, 3)
		for _, v := range row {
			assert.False(t, math.IsNaN(v))
			assert.Positive(t, v)
		}
	}
}

func TestComputeDefaultField(t *testing.T) {
	svc := newTestService(t)

	field, err := svc.ComputeDefaultField()
	require.NoError(t, err)

	require.Len(t, field.XRange, 25)
	require.Len(t, field.YRange, 6)
	require.Len(t, field.AreaGrid, 25)

	// The default sweep stays in reachable territory.
	for xi, row := range field.AreaGrid {
		for yi, v := range row {
			assert.False(t, math.IsNaN(v), "cell (%d,%d)", xi, yi)
		}
	}
}

func TestNewService_NoCache(t *testing.T) {
	svc, err := NewService(Dependencies{Geometry: geometry.Default()}, nil, nil)
	require.NoError(t, err)

	space, err := svc.ComputeAngularSpeedSpace(-3, 0.5)
	require.NoError(t, err)
	assert.Positive(t, space.Area)
}
