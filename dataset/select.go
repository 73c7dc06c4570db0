package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// SelectColumns returns a new matrix holding the given columns of X in the
// given order. Row order is preserved. Indices may repeat.
func SelectColumns(X mat.Matrix, indices []int) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if len(indices) == 0 {
		return nil, errors.NewValueError("SelectColumns", "no columns selected")
	}
	for _, idx := range indices {
		if idx < 0 || idx >= cols {
			return nil, errors.NewIndexError("SelectColumns", idx, cols)
		}
	}

	out := mat.NewDense(rows, len(indices), nil)
	col := make([]float64, rows)
	for k, idx := range indices {
		mat.Col(col, idx, X)
		out.SetCol(k, col)
	}
	return out, nil
}

// SelectByName resolves refs against schema and selects those columns.
// X must have exactly as many columns as the schema.
func SelectByName(X mat.Matrix, schema *Schema, refs ...string) (*mat.Dense, error) {
	if err := schema.Check(X); err != nil {
		return nil, err
	}
	indices, err := schema.Resolve(refs...)
	if err != nil {
		return nil, err
	}
	return SelectColumns(X, indices)
}
