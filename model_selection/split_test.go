package model_selection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// rowMatrix は行iの全要素が base+i となる n×c 行列を返す
func rowMatrix(n, c int, base float64) *mat.Dense {
	X := mat.NewDense(n, c, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < c; j++ {
			X.Set(i, j, base+float64(i))
		}
	}
	return X
}

func TestSplitIndicesCoversEveryRowOnce(t *testing.T) {
	for _, n := range []int{2, 3, 10, 32, 101} {
		part, err := SplitIndices(n, 0.33, NewRand(7))
		require.NoError(t, err, "n=%d", n)

		assert.Len(t, part.Test, TestSize(n, 0.33))
		all := append(append([]int(nil), part.Train...), part.Test...)
		sort.Ints(all)
		require.Len(t, all, n)
		for i, v := range all {
			assert.Equal(t, i, v, "n=%d", n)
		}
	}
}

func TestSplitIndicesDeterministic(t *testing.T) {
	a, err := SplitIndices(50, 0.3, NewRand(42))
	require.NoError(t, err)
	b, err := SplitIndices(50, 0.3, NewRand(42))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := SplitIndices(50, 0.3, NewRand(43))
	require.NoError(t, err)
	assert.NotEqual(t, a.Test, c.Test)
}

func TestSplitIndicesWithoutShuffle(t *testing.T) {
	part, err := SplitIndices(10, 0.3, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, part.Train)
	assert.Equal(t, []int{7, 8, 9}, part.Test)
}

func TestSplitIndicesInvalid(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		fraction float64
	}{
		{"zero fraction", 10, 0},
		{"one fraction", 10, 1},
		{"negative fraction", 10, -0.2},
		{"above one", 10, 1.5},
		{"empty test set", 3, 0.1},
		{"empty train set", 3, 0.9},
		{"single row", 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitIndices(tt.n, tt.fraction, NewRand(1))
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr), "got %v", err)
		})
	}
}

func TestTrainTestSplitSizes(t *testing.T) {
	inputs := rowMatrix(10, 3, 0)
	targets := rowMatrix(10, 2, 100)

	trainIn, testIn, trainTarg, testTarg, err := TrainTestSplit(inputs, targets, 0.3, WithRandomSeed(42))
	require.NoError(t, err)

	r, c := trainIn.Dims()
	assert.Equal(t, [2]int{7, 3}, [2]int{r, c})
	r, c = testIn.Dims()
	assert.Equal(t, [2]int{3, 3}, [2]int{r, c})
	r, c = trainTarg.Dims()
	assert.Equal(t, [2]int{7, 2}, [2]int{r, c})
	r, c = testTarg.Dims()
	assert.Equal(t, [2]int{3, 2}, [2]int{r, c})
}

func TestTrainTestSplitRowCorrespondence(t *testing.T) {
	inputs := rowMatrix(20, 3, 0)
	targets := rowMatrix(20, 2, 100)

	trainIn, testIn, trainTarg, testTarg, err := TrainTestSplit(inputs, targets, 0.25, WithRandomSeed(3))
	require.NoError(t, err)

	check := func(in, targ *mat.Dense) {
		r, _ := in.Dims()
		for i := 0; i < r; i++ {
			assert.Equal(t, in.At(i, 0)+100, targ.At(i, 1), "row %d", i)
		}
	}
	check(trainIn, trainTarg)
	check(testIn, testTarg)

	seen := map[float64]bool{}
	for _, m := range []*mat.Dense{trainIn, testIn} {
		r, _ := m.Dims()
		for i := 0; i < r; i++ {
			assert.False(t, seen[m.At(i, 0)], "row %v appears twice", m.At(i, 0))
			seen[m.At(i, 0)] = true
		}
	}
	assert.Len(t, seen, 20)
}

func TestTrainTestSplitSeedReproducible(t *testing.T) {
	inputs := rowMatrix(30, 2, 0)
	targets := rowMatrix(30, 1, 0)

	_, a, _, _, err := TrainTestSplit(inputs, targets, 0.33, WithRandomSeed(99))
	require.NoError(t, err)
	_, b, _, _, err := TrainTestSplit(inputs, targets, 0.33, WithRandomSeed(99))
	require.NoError(t, err)
	assert.True(t, mat.Equal(a, b))
}

func TestTrainTestSplitErrors(t *testing.T) {
	_, _, _, _, err := TrainTestSplit(rowMatrix(10, 3, 0), rowMatrix(9, 2, 0), 0.3)
	var shapeErr *errors.ShapeMismatchError
	assert.True(t, errors.As(err, &shapeErr))

	_, _, _, _, err = TrainTestSplit(rowMatrix(10, 3, 0), rowMatrix(10, 2, 0), 1.2)
	var valErr *errors.ValueError
	assert.True(t, errors.As(err, &valErr))

	_, _, _, _, err = TrainTestSplit(&mat.Dense{}, &mat.Dense{}, 0.3)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
