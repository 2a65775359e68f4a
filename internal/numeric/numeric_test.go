package numeric

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewtonFind(t *testing.T) {
	tests := []struct {
		name string
		f    Func
		seed float64
		want float64
	}{
		{"sqrt2", func(x float64) float64 { return x*x - 2 }, 1, math.Sqrt2},
		{"cosine zero", math.Cos, 1.4, math.Pi / 2},
		{"cubic", func(x float64) float64 { return x*x*x - 8 }, 3, 2},
		{"already at root", func(x float64) float64 { return x - 5 }, 5, 5},
		{"linear", func(x float64) float64 { return 3*x + 6 }, 0, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNewton().Find(tt.f, tt.seed)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-8)
		})
	}
}

func TestNewtonFind_NoRoot(t *testing.T) {
	_, err := NewNewton().Find(func(x float64) float64 { return 1 + x*x }, 0.5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRootFindDiverged))
}

func TestNewtonFind_NaNFunction(t *testing.T) {
	_, err := NewNewton().Find(func(x float64) float64 { return math.NaN() }, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRootFindDiverged))
}

func TestAdaptiveGaussLegendre(t *testing.T) {
	tests := []struct {
		name string
		f    Func
		a, b float64
		want float64
	}{
		{"sine over half period", math.Sin, 0, math.Pi, 2},
		{"parabola", func(x float64) float64 { return x * x }, 0, 1, 1.0 / 3.0},
		{"constant", func(x float64) float64 { return 4 }, -1, 3, 16},
		{"reversed bounds flip sign", math.Sin, math.Pi, 0, -2},
		{"oscillatory", func(x float64) float64 { return math.Sin(10 * x) }, 0, math.Pi, (1 - math.Cos(10*math.Pi)) / 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, estimate, err := NewAdaptiveGaussLegendre().Integrate(tt.f, tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-8)
			assert.Less(t, estimate, 1e-6)
		})
	}
}

func TestAdaptiveGaussLegendre_EmptyInterval(t *testing.T) {
	got, estimate, err := NewAdaptiveGaussLegendre().Integrate(math.Sin, 2, 2)
	require.NoError(t, err)
	assert.Zero(t, got)
	assert.Zero(t, estimate)
}

func TestAdaptiveGaussLegendre_NonFiniteIntegrand(t *testing.T) {
	_, _, err := NewAdaptiveGaussLegendre().Integrate(func(x float64) float64 { return math.NaN() }, 0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuadratureDiverged))
}
