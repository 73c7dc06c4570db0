package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// DefaultPrecision is the number of decimal places written by Export.
const DefaultPrecision = 3

// Export writes X to path as comma-delimited text with precision decimal
// places. The file is created or truncated.
func Export(X mat.Matrix, path string, precision int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewIOError("close", path, cerr)
		}
	}()

	if err := ExportWriter(f, X, precision); err != nil {
		return errors.Wrapf(err, "export %s", path)
	}
	return nil
}

// ExportWriter writes X to w as comma-delimited text with precision decimal places.
func ExportWriter(w io.Writer, X mat.Matrix, precision int) error {
	if precision < 0 {
		return errors.NewValueErrorf("ExportWriter", "precision must be non-negative, got %d", precision)
	}

	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	rows, cols := X.Dims()
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(X.At(i, j), 'f', precision, 64)
		}
		if err := cw.Write(record); err != nil {
			return errors.NewIOError("write", "", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewIOError("write", "", err)
	}
	if err := bw.Flush(); err != nil {
		return errors.NewIOError("write", "", err)
	}
	return nil
}
