package dataset

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// MTCarsColumns is the column layout of the cars dataset.
var MTCarsColumns = []string{
	"mpg", "cyl", "disp", "hp", "drat", "wt", "qsec", "vs", "am", "gear", "carb",
}

// Default column selections for the cars dataset: inputs mpg, cyl, disp
// (positions 0, 1, 2) and targets hp, qsec (positions 3, 6).
var (
	DefaultInputColumns  = []string{"0", "1", "2"}
	DefaultTargetColumns = []string{"3", "6"}
)

// Schema names the columns of a matrix by position.
type Schema struct {
	columns []string
}

// NewSchema creates a schema from column names. Names must be non-empty,
// unique, and must not look like integers, since integers are read as
// positions by Resolve.
func NewSchema(columns ...string) (*Schema, error) {
	cleaned := lo.Map(columns, func(c string, _ int) string { return strings.TrimSpace(c) })
	for _, c := range cleaned {
		if c == "" {
			return nil, errors.NewValueError("NewSchema", "empty column name")
		}
		if _, err := strconv.Atoi(c); err == nil {
			return nil, errors.NewValueErrorf("NewSchema", "column name %q is an integer", c)
		}
	}
	if dups := lo.FindDuplicates(cleaned); len(dups) > 0 {
		return nil, errors.NewValueErrorf("NewSchema", "duplicate column names %v", dups)
	}
	return &Schema{columns: cleaned}, nil
}

// MTCarsSchema returns the schema of the cars dataset.
func MTCarsSchema() *Schema {
	return &Schema{columns: append([]string(nil), MTCarsColumns...)}
}

// Len returns the number of columns, 0 for a nil schema.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.columns)
}

// Columns returns a copy of the column names.
func (s *Schema) Columns() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.columns...)
}

// Check verifies that X has one column per schema entry.
func (s *Schema) Check(X mat.Matrix) error {
	rows, cols := X.Dims()
	if s == nil {
		return nil
	}
	if cols != len(s.columns) {
		return errors.NewShapeMismatchError("Schema.Check", [2]int{-1, len(s.columns)}, [2]int{rows, cols})
	}
	return nil
}

// Resolve converts column references to positions. A reference is either a
// non-negative integer position or a column name. A nil schema accepts only
// positions. Positions are bounds-checked only when the schema is non-nil.
func (s *Schema) Resolve(refs ...string) ([]int, error) {
	indices := make([]int, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if idx, err := strconv.Atoi(ref); err == nil {
			if idx < 0 || (s != nil && idx >= len(s.columns)) {
				return nil, errors.NewIndexError("Schema.Resolve", idx, s.Len())
			}
			indices = append(indices, idx)
			continue
		}
		if s == nil {
			return nil, errors.NewColumnNameError("Schema.Resolve", ref)
		}
		idx := lo.IndexOf(s.columns, ref)
		if idx < 0 {
			return nil, errors.NewColumnNameError("Schema.Resolve", ref)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// Names returns the names of the given positions.
func (s *Schema) Names(indices ...int) ([]string, error) {
	names := make([]string, len(indices))
	for k, idx := range indices {
		if idx < 0 || idx >= s.Len() {
			return nil, errors.NewIndexError("Schema.Names", idx, s.Len())
		}
		names[k] = s.columns[idx]
	}
	return names, nil
}
