// Package model_selection partitions sample rows into training and test sets.
package model_selection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// Partition holds disjoint row indices whose union covers every row once.
type Partition struct {
	Train []int
	Test  []int
}

// SplitOption configures TrainTestSplit.
type SplitOption func(*splitConfig)

type splitConfig struct {
	seed    uint64
	seeded  bool
	shuffle bool
}

// WithRandomSeed makes the split reproducible: the same seed always gives
// the same partition for the same row count.
func WithRandomSeed(seed uint64) SplitOption {
	return func(c *splitConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// WithShuffle controls whether rows are permuted before splitting. Without
// shuffling the last rows form the test set.
func WithShuffle(shuffle bool) SplitOption {
	return func(c *splitConfig) {
		c.shuffle = shuffle
	}
}

// NewRand returns the PCG generator used for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// TestSize returns round(n*testFraction), the number of test rows.
func TestSize(n int, testFraction float64) int {
	return int(math.Round(float64(n) * testFraction))
}

// SplitIndices permutes 0..n-1 with rng and takes the first
// round(n*testFraction) positions as the test set. A nil rng keeps the
// natural order and puts the last rows in the test set.
func SplitIndices(n int, testFraction float64, rng *rand.Rand) (Partition, error) {
	if !(testFraction > 0 && testFraction < 1) {
		return Partition{}, errors.NewValueErrorf("SplitIndices", "test_fraction must be in (0, 1), got %v", testFraction)
	}
	nTest := TestSize(n, testFraction)
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return Partition{}, errors.NewValueErrorf("SplitIndices",
			"test_fraction %v with %d samples leaves %d train and %d test rows", testFraction, n, nTrain, nTest)
	}

	if rng == nil {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return Partition{
			Train: order[:nTrain:nTrain],
			Test:  order[nTrain:],
		}, nil
	}

	perm := rng.Perm(n)
	return Partition{
		Test:  perm[:nTest:nTest],
		Train: perm[nTest:],
	}, nil
}

// TrainTestSplit splits inputs and targets by the same random row partition.
// Row i of trainIn and row i of trainTarg always come from the same source
// row. Without WithRandomSeed the generator is seeded from fresh entropy.
//
// 使用例:
//
//	trainIn, testIn, trainTarg, testTarg, err := model_selection.TrainTestSplit(
//		X, Y, 0.33, model_selection.WithRandomSeed(42))
func TrainTestSplit(inputs, targets mat.Matrix, testFraction float64, opts ...SplitOption) (trainIn, testIn, trainTarg, testTarg *mat.Dense, err error) {
	cfg := splitConfig{shuffle: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	n, ic := inputs.Dims()
	nt, tc := targets.Dims()
	if n != nt {
		return nil, nil, nil, nil, errors.NewShapeMismatchError("TrainTestSplit", [2]int{n, -1}, [2]int{nt, tc})
	}
	if n == 0 || ic == 0 || tc == 0 {
		return nil, nil, nil, nil, errors.NewModelError("TrainTestSplit", "empty data", errors.ErrEmptyData)
	}

	var rng *rand.Rand
	if cfg.shuffle {
		seed := cfg.seed
		if !cfg.seeded {
			seed = rand.Uint64()
		}
		rng = NewRand(seed)
	}

	part, err := SplitIndices(n, testFraction, rng)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return TakeRows(inputs, part.Train), TakeRows(inputs, part.Test),
		TakeRows(targets, part.Train), TakeRows(targets, part.Test), nil
}

// TakeRows returns a new matrix whose row k is row indices[k] of X.
// indices must be non-empty and in range, and X must have columns.
func TakeRows(X mat.Matrix, indices []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(indices), c, nil)
	row := make([]float64, c)
	for k, idx := range indices {
		mat.Row(row, idx, X)
		out.SetRow(k, row)
	}
	return out
}
