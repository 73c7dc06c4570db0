package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("MaxScaler", "Transform")
	var notFitted *errors.NotFittedError
	require.True(t, errors.As(err, &notFitted))
	assert.Equal(t, "Transform", notFitted.Method)

	s.SetFitted(3, 10)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("MaxScaler", "Transform"))

	nFeatures, nSamples := s.Dimensions()
	assert.Equal(t, 3, nFeatures)
	assert.Equal(t, 10, nSamples)

	assert.NoError(t, s.RequireFeatures("Predict", 5, 3))
	var shapeErr *errors.ShapeMismatchError
	require.True(t, errors.As(s.RequireFeatures("Predict", 5, 2), &shapeErr))
	assert.Equal(t, [2]int{-1, 3}, shapeErr.Expected)

	s.Reset()
	assert.False(t, s.IsFitted())
}

func TestScalerStateRoundTrip(t *testing.T) {
	state := &ScalerState{
		Strategy: "max",
		Version:  ScalerStateVersion,
		Offset:   []float64{0, 0, 0},
		Divisor:  []float64{33.9, 8, 472},
		Features: []string{"mpg", "cyl", "disp"},
	}
	path := filepath.Join(t.TempDir(), "scale_factors.json")
	require.NoError(t, SaveScalerState(state, path))

	loaded, err := LoadScalerState(path)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestScalerStateValidate(t *testing.T) {
	tests := []struct {
		name  string
		state ScalerState
	}{
		{"missing strategy", ScalerState{Version: "1.0", Offset: []float64{0}, Divisor: []float64{1}}},
		{"missing version", ScalerState{Strategy: "max", Offset: []float64{0}, Divisor: []float64{1}}},
		{"empty divisor", ScalerState{Strategy: "max", Version: "1.0"}},
		{"length mismatch", ScalerState{Strategy: "max", Version: "1.0", Offset: []float64{0}, Divisor: []float64{1, 2}}},
		{"zero divisor", ScalerState{Strategy: "max", Version: "1.0", Offset: []float64{0}, Divisor: []float64{0}}},
		{"feature names mismatch", ScalerState{Strategy: "max", Version: "1.0", Offset: []float64{0}, Divisor: []float64{1}, Features: []string{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.state.Validate())
		})
	}
}

func TestLoadScalerStateMissingFile(t *testing.T) {
	_, err := LoadScalerState(filepath.Join(t.TempDir(), "absent.json"))
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}
