package pipeline

import (
	"github.com/YuminosukeSato/scisplit/dataset"
	"github.com/YuminosukeSato/scisplit/pkg/errors"
	"github.com/YuminosukeSato/scisplit/preprocessing"
)

// Output file names written into Config.OutputDir.
const (
	TrainInputsFile  = "train_inputs.csv"
	TestInputsFile   = "test_inputs.csv"
	TrainTargetsFile = "train_targets.csv"
	TestTargetsFile  = "test_targets.csv"
	ScaleFactorsFile = "scale_factors.json"
)

// Config holds everything a run needs.
type Config struct {
	// InputPath is the comma-delimited numeric file to load.
	InputPath string

	// OutputDir receives the four partition files. It must exist.
	OutputDir string

	// TestFraction is the share of rows placed in the test set, in (0, 1).
	TestFraction float64

	// Seed fixes the split. Nil draws a fresh seed, which is still reported.
	Seed *uint64

	Scaler preprocessing.Strategy

	// Columns names the input file's columns. Empty means the cars layout
	// when the file has that many columns, and positions only otherwise.
	Columns []string

	// Inputs and Targets are column references: names from Columns or
	// integer positions.
	Inputs  []string
	Targets []string

	// Precision is the number of decimal places in the exported files.
	Precision int

	// WriteScaleFactors also writes the fitted scale factors as JSON.
	WriteScaleFactors bool

	// PlotPath, when set, receives a predicted-vs-actual plot of the test set.
	PlotPath string
}

// DefaultConfig returns the cars dataset run: inputs at positions 0, 1, 2,
// targets at 3 and 6, a third of the rows held out and a max-division rescale.
func DefaultConfig() Config {
	return Config{
		InputPath:    "cars.csv",
		OutputDir:    ".",
		TestFraction: 0.33,
		Scaler:       preprocessing.StrategyMax,
		Inputs:       append([]string(nil), dataset.DefaultInputColumns...),
		Targets:      append([]string(nil), dataset.DefaultTargetColumns...),
		Precision:    dataset.DefaultPrecision,
	}
}

// Validate checks the fields that can be checked before any data is read.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.NewValueError("Config.Validate", "input path is required")
	}
	if c.OutputDir == "" {
		return errors.NewValueError("Config.Validate", "output directory is required")
	}
	if !(c.TestFraction > 0 && c.TestFraction < 1) {
		return errors.NewValueErrorf("Config.Validate", "test fraction must be in (0, 1), got %v", c.TestFraction)
	}
	if _, err := preprocessing.ParseStrategy(string(c.Scaler)); err != nil {
		return err
	}
	if len(c.Inputs) == 0 {
		return errors.NewValueError("Config.Validate", "no input columns")
	}
	if len(c.Targets) == 0 {
		return errors.NewValueError("Config.Validate", "no target columns")
	}
	if c.Precision < 0 {
		return errors.NewValueErrorf("Config.Validate", "precision must be non-negative, got %d", c.Precision)
	}
	if len(c.Columns) > 0 {
		if _, err := dataset.NewSchema(c.Columns...); err != nil {
			return err
		}
	}
	return nil
}
