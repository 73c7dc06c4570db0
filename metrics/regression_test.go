package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name      string
		predicted *mat.Dense
		actual    *mat.Dense
		want      float64
	}{
		{
			name:      "simple case",
			predicted: mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5}),
			actual:    mat.NewDense(4, 1, []float64{1.0, 2.0, 3.0, 4.0}),
			want:      0.25,
		},
		{
			name:      "larger errors",
			predicted: mat.NewDense(3, 1, []float64{12.0, 18.0, 33.0}),
			actual:    mat.NewDense(3, 1, []float64{10.0, 20.0, 30.0}),
			want:      17.0 / 3.0,
		},
		{
			// 全要素の平均: (1 + 0 + 4 + 9) / 4
			name:      "two target columns",
			predicted: mat.NewDense(2, 2, []float64{1, 2, 5, 4}),
			actual:    mat.NewDense(2, 2, []float64{0, 2, 3, 7}),
			want:      14.0 / 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(tt.predicted, tt.actual)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestMSEOfIdenticalMatricesIsZero(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{0.1, 0.7, 1, 0.3, 0.25, 0.9})
	got, err := MSE(X, X)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestMetricErrors(t *testing.T) {
	metricFuncs := map[string]func(a, b mat.Matrix) (float64, error){
		"MSE":     MSE,
		"RMSE":    RMSE,
		"MAE":     MAE,
		"R2Score": R2Score,
	}
	for name, fn := range metricFuncs {
		t.Run(name, func(t *testing.T) {
			_, err := fn(mat.NewDense(3, 2, nil), mat.NewDense(3, 1, nil))
			var shapeErr *errors.ShapeMismatchError
			assert.True(t, errors.As(err, &shapeErr), "shape mismatch: %v", err)

			_, err = fn(&mat.Dense{}, &mat.Dense{})
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr), "empty: %v", err)
		})
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE(
		mat.NewDense(4, 1, []float64{1.5, 2.5, 2.5, 3.5}),
		mat.NewDense(4, 1, []float64{1.0, 2.0, 3.0, 4.0}),
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-10)
}

func TestMAE(t *testing.T) {
	got, err := MAE(
		mat.NewDense(3, 1, []float64{12.0, 18.0, 33.0}),
		mat.NewDense(3, 1, []float64{10.0, 20.0, 30.0}),
	)
	require.NoError(t, err)
	assert.InDelta(t, 7.0/3.0, got, 1e-10)
}

func TestR2Score(t *testing.T) {
	actual := mat.NewDense(5, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
		5, 50,
	})

	got, err := R2Score(actual, actual)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)

	// 平均値を予測すると R² = 0
	mean := mat.NewDense(5, 2, []float64{3, 30, 3, 30, 3, 30, 3, 30, 3, 30})
	got, err = R2Score(mean, actual)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got, 1e-12)

	constant := mat.NewDense(3, 1, []float64{2, 2, 2})
	_, err = R2Score(constant, constant)
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))
	assert.False(t, math.IsNaN(got))
}
