package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// Load reads the comma-delimited numeric file at path into a matrix.
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("open", path, err)
	}
	defer f.Close()

	X, err := LoadReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return X, nil
}

// LoadReader reads comma-delimited numeric rows from r. Every row must have
// the column count of the first row and every cell must parse as a finite
// float. Empty lines are skipped.
func LoadReader(r io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var (
		data []float64
		cols int
		rows int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, errors.NewFormatError(parseErr.Line, parseErr.Column, parseErr.Err.Error())
			}
			return nil, errors.NewIOError("read", "", err)
		}
		line, _ := reader.FieldPos(0)

		if rows == 0 {
			cols = len(record)
		} else if len(record) != cols {
			return nil, errors.NewFormatError(line, 0,
				fmt.Sprintf("expected %d columns, got %d", cols, len(record)))
		}

		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.NewFormatError(line, j+1,
					fmt.Sprintf("cannot parse %q as a number", cell))
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.NewFormatError(line, j+1,
					fmt.Sprintf("non-finite value %q", cell))
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, errors.NewModelError("dataset.Load", "empty data", errors.ErrEmptyData)
	}
	return mat.NewDense(rows, cols, data), nil
}
