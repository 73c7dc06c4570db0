// Package pipeline runs the partitioning stages in order: load, rescale,
// select, split, fit, evaluate and export. The first failing stage aborts
// the run; files written by earlier stages are left in place.
package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scisplit/core/model"
	"github.com/YuminosukeSato/scisplit/dataset"
	"github.com/YuminosukeSato/scisplit/linear"
	"github.com/YuminosukeSato/scisplit/metrics"
	"github.com/YuminosukeSato/scisplit/model_selection"
	"github.com/YuminosukeSato/scisplit/pkg/errors"
	"github.com/YuminosukeSato/scisplit/pkg/log"
	"github.com/YuminosukeSato/scisplit/preprocessing"
	"github.com/YuminosukeSato/scisplit/visualization"
)

// Outputs lists the files a run wrote. Optional outputs are empty when
// they were not requested.
type Outputs struct {
	TrainInputs  string
	TestInputs   string
	TrainTargets string
	TestTargets  string
	ScaleFactors string
	Plot         string
}

// Report summarizes a completed run.
type Report struct {
	RunID  string
	Seed   uint64
	Scaler preprocessing.Strategy

	// Shapes are (rows, cols).
	DataShape   [2]int
	InputShape  [2]int
	TargetShape [2]int

	TrainSamples int
	TestSamples  int

	TrainMSE float64
	TestMSE  float64

	// Coef is (n_targets, n_inputs); Intercept has one entry per target.
	Coef      *mat.Dense
	Intercept []float64

	Outputs  Outputs
	Duration time.Duration
}

type stage struct {
	name string
	fn   func() error
}

type run struct {
	cfg    Config
	report *Report
	logger log.Logger
}

// Run executes every stage for cfg. ctx is checked between stages.
func Run(ctx context.Context, cfg Config) (report *Report, err error) {
	defer errors.Recover(&err, "pipeline.Run")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	strategy, err := preprocessing.ParseStrategy(string(cfg.Scaler))
	if err != nil {
		return nil, err
	}

	r := &run{
		cfg: cfg,
		report: &Report{
			RunID:  uuid.NewString(),
			Seed:   seed,
			Scaler: strategy,
		},
	}
	r.logger = log.GetLoggerWithName("pipeline").With(log.RunIDKey, r.report.RunID)
	r.logger.Info("run started",
		log.PathKey, cfg.InputPath,
		log.TestFractionKey, cfg.TestFraction,
		log.RandomSeedKey, seed,
		log.ScalerKey, string(strategy),
	)
	start := time.Now()

	var (
		raw, scaled                          *mat.Dense
		factors                              *preprocessing.ScaleFactors
		schema                               *dataset.Schema
		inputs, targets                      *mat.Dense
		trainIn, testIn, trainTarg, testTarg *mat.Dense
		testPred                             *mat.Dense
		lr                                   = linear.NewLinearRegression()
	)

	stages := []stage{
		{log.OperationLoad, func() error {
			var err error
			if raw, err = dataset.Load(cfg.InputPath); err != nil {
				return err
			}
			r.report.DataShape = dims(raw)
			if schema, err = r.schema(raw); err != nil {
				return err
			}
			r.logger.Info("dataset loaded",
				log.SamplesKey, r.report.DataShape[0],
				log.FeaturesKey, r.report.DataShape[1],
			)
			return nil
		}},
		{log.OperationRescale, func() error {
			scaler, err := preprocessing.NewScaler(strategy)
			if err != nil {
				return err
			}
			if scaled, err = scaler.FitTransform(raw); err != nil {
				return err
			}
			factors, err = scaler.Factors()
			return err
		}},
		{log.OperationSelect, func() error {
			var err error
			if inputs, err = dataset.SelectByName(scaled, schema, cfg.Inputs...); err != nil {
				return err
			}
			if targets, err = dataset.SelectByName(scaled, schema, cfg.Targets...); err != nil {
				return err
			}
			r.report.InputShape = dims(inputs)
			r.report.TargetShape = dims(targets)
			return nil
		}},
		{log.OperationSplit, func() error {
			var err error
			trainIn, testIn, trainTarg, testTarg, err = model_selection.TrainTestSplit(
				inputs, targets, cfg.TestFraction, model_selection.WithRandomSeed(seed))
			if err != nil {
				return err
			}
			r.report.TrainSamples = dims(trainIn)[0]
			r.report.TestSamples = dims(testIn)[0]
			r.logger.Info("rows partitioned",
				log.TrainSamplesKey, r.report.TrainSamples,
				log.TestSamplesKey, r.report.TestSamples,
			)
			return nil
		}},
		{log.OperationFit, func() error {
			if err := lr.Fit(trainIn, trainTarg); err != nil {
				return err
			}
			r.report.Coef = lr.Coef()
			r.report.Intercept = lr.Intercept()
			return nil
		}},
		{log.OperationEvaluate, func() error {
			trainPred, err := lr.Predict(trainIn)
			if err != nil {
				return err
			}
			if testPred, err = lr.Predict(testIn); err != nil {
				return err
			}
			if r.report.TrainMSE, err = metrics.MSE(trainPred, trainTarg); err != nil {
				return err
			}
			if r.report.TestMSE, err = metrics.MSE(testPred, testTarg); err != nil {
				return err
			}
			r.logger.Info("model evaluated",
				log.ModelNameKey, "LinearRegression",
				log.TrainMSEKey, r.report.TrainMSE,
				log.TestMSEKey, r.report.TestMSE,
			)
			return nil
		}},
		{log.OperationExport, func() error {
			return r.export([]exportFile{
				{TrainInputsFile, trainIn, &r.report.Outputs.TrainInputs},
				{TestInputsFile, testIn, &r.report.Outputs.TestInputs},
				{TrainTargetsFile, trainTarg, &r.report.Outputs.TrainTargets},
				{TestTargetsFile, testTarg, &r.report.Outputs.TestTargets},
			}, factors, schema)
		}},
	}
	if cfg.PlotPath != "" {
		stages = append(stages, stage{"plot", func() error {
			return r.plot(testPred, testTarg, schema)
		}})
	}

	for _, s := range stages {
		if err := r.runStage(ctx, s); err != nil {
			return nil, err
		}
	}

	r.report.Duration = time.Since(start)
	r.logger.Info("run finished", log.DurationMsKey, r.report.Duration.Milliseconds())
	return r.report, nil
}

// runStage runs s after checking ctx and converts a panic inside it into an error.
func (r *run) runStage(ctx context.Context, s stage) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "before stage %s", s.name)
	}
	start := time.Now()
	if err := errors.SafeExecute("pipeline."+s.name, s.fn); err != nil {
		return errors.Wrapf(err, "stage %s", s.name)
	}
	r.logger.Debug("stage finished",
		log.StageKey, s.name,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// schema returns the configured schema, the cars schema when the data has
// the cars column count, or nil. A nil schema resolves positions only.
func (r *run) schema(X *mat.Dense) (*dataset.Schema, error) {
	if len(r.cfg.Columns) > 0 {
		schema, err := dataset.NewSchema(r.cfg.Columns...)
		if err != nil {
			return nil, err
		}
		if err := schema.Check(X); err != nil {
			return nil, err
		}
		return schema, nil
	}
	if _, cols := X.Dims(); cols == len(dataset.MTCarsColumns) {
		return dataset.MTCarsSchema(), nil
	}
	return nil, nil
}

type exportFile struct {
	name string
	X    *mat.Dense
	dst  *string // report field that records the written path
}

// export writes each matrix into the output directory in order, then the
// optional scale factors.
func (r *run) export(files []exportFile, factors *preprocessing.ScaleFactors, schema *dataset.Schema) error {
	for _, f := range files {
		path := filepath.Join(r.cfg.OutputDir, f.name)
		if err := dataset.Export(f.X, path, r.cfg.Precision); err != nil {
			return err
		}
		*f.dst = path
		r.logger.Debug("matrix exported", log.PathKey, path)
	}

	if r.cfg.WriteScaleFactors {
		path := filepath.Join(r.cfg.OutputDir, ScaleFactorsFile)
		if err := model.SaveScalerState(factors.State(schema.Columns()), path); err != nil {
			return err
		}
		r.report.Outputs.ScaleFactors = path
		r.logger.Debug("scale factors exported", log.PathKey, path)
	}
	return nil
}

func (r *run) plot(pred, actual *mat.Dense, schema *dataset.Schema) error {
	opts := []visualization.ScatterOption{
		visualization.WithTitle(fmt.Sprintf("Test set (MSE %.4f)", r.report.TestMSE)),
	}
	if indices, err := schema.Resolve(r.cfg.Targets...); err == nil {
		if names, err := schema.Names(indices...); err == nil {
			opts = append(opts, visualization.WithSeriesNames(names...))
		}
	}
	if err := visualization.PredictionScatter(pred, actual, r.cfg.PlotPath, opts...); err != nil {
		return err
	}
	r.report.Outputs.Plot = r.cfg.PlotPath
	r.logger.Debug("plot written", log.PathKey, r.cfg.PlotPath)
	return nil
}

func dims(X mat.Matrix) [2]int {
	r, c := X.Dims()
	return [2]int{r, c}
}
