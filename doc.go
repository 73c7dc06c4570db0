// Package scisplit prepares a small numeric dataset for a regression
// experiment in a reproducible way.
//
// A run loads a comma-delimited file, rescales every column, selects the
// input and target columns, splits the rows into training and test
// partitions with an explicit seed, fits a least-squares baseline, reports
// the training and test mean squared error, and writes the four partitions
// back out with fixed precision.
//
// # Quick Start
//
// The pipeline package runs every stage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/scisplit/pipeline"
//	)
//
//	func main() {
//	    cfg := pipeline.DefaultConfig()
//	    cfg.InputPath = "cars.csv"
//	    seed := uint64(42)
//	    cfg.Seed = &seed
//
//	    report, err := pipeline.Run(context.Background(), cfg)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Training MSE:", report.TrainMSE)
//	    fmt.Println("Test MSE:", report.TestMSE)
//	}
//
// The stages can also be used one by one:
//
//	raw, err := dataset.Load("cars.csv")
//	scaled, factors, err := preprocessing.Rescale(raw)
//	inputs, err := dataset.SelectColumns(scaled, []int{0, 1, 2})
//	targets, err := dataset.SelectColumns(scaled, []int{3, 6})
//	trainIn, testIn, trainTarg, testTarg, err := model_selection.TrainTestSplit(
//	    inputs, targets, 0.33, model_selection.WithRandomSeed(42))
//
// # Packages
//
//   - dataset: Load, SelectColumns, Export and the column Schema
//   - preprocessing: max-division and min-max scalers with inverse transforms
//   - model_selection: seeded train/test partitioning
//   - linear: multi-output ordinary least squares
//   - metrics: MSE, RMSE, MAE, R²
//   - pipeline: the end-to-end run and its Report
//   - visualization: predicted-vs-actual plots
//   - core/model: shared interfaces, fitted state and scaler state JSON
//   - core/parallel: parallel row loops
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// # Command
//
// cmd/scisplit exposes the pipeline on the command line:
//
//	scisplit -input cars.csv -out ./out -seed 42 -scale-factors
package scisplit
