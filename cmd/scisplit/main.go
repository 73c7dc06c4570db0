// Command scisplit rescales a numeric dataset, splits it into training and
// test partitions, fits a least-squares baseline and writes the partitions
// out as comma-delimited files.
//
// Usage:
//
//	scisplit -input cars.csv -out ./out -seed 42
//
// The training and test mean squared errors are printed to stdout; logs go
// to stderr as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/YuminosukeSato/scisplit/pipeline"
	"github.com/YuminosukeSato/scisplit/pkg/errors"
	"github.com/YuminosukeSato/scisplit/pkg/log"
	"github.com/YuminosukeSato/scisplit/preprocessing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("scisplit failed", log.ErrAttr(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, level, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if err := log.SetupLogger(stderr, level); err != nil {
		return err
	}

	report, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Training MSE: %g\n", report.TrainMSE)
	fmt.Fprintf(stdout, "Test MSE: %g\n", report.TestMSE)
	return nil
}

// parseFlags maps the command line onto a pipeline.Config. It also returns
// the requested log level.
func parseFlags(args []string, output io.Writer) (pipeline.Config, string, error) {
	cfg := pipeline.DefaultConfig()

	fs := flag.NewFlagSet("scisplit", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		scaler   = fs.String("scaler", string(cfg.Scaler), "rescaling strategy: max or minmax")
		columns  = fs.String("columns", "", "comma-separated column names of the input file")
		inputs   = fs.String("inputs", strings.Join(cfg.Inputs, ","), "comma-separated input columns (names or positions)")
		targets  = fs.String("targets", strings.Join(cfg.Targets, ","), "comma-separated target columns (names or positions)")
		seed     = fs.Uint64("seed", 0, "random seed for the split (default: fresh entropy)")
		logLevel = fs.String("log-level", "info", "log level: debug, info, warn or error")
	)
	fs.StringVar(&cfg.InputPath, "input", cfg.InputPath, "comma-delimited numeric input file")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "directory for the partition files")
	fs.Float64Var(&cfg.TestFraction, "test-fraction", cfg.TestFraction, "share of rows held out for testing, in (0, 1)")
	fs.IntVar(&cfg.Precision, "precision", cfg.Precision, "decimal places in the exported files")
	fs.BoolVar(&cfg.WriteScaleFactors, "scale-factors", false, "also write "+pipeline.ScaleFactorsFile)
	fs.StringVar(&cfg.PlotPath, "plot", "", "write a predicted-vs-actual plot of the test set to this file (.png, .svg, ...)")

	if err := fs.Parse(args); err != nil {
		return cfg, "", err
	}
	if fs.NArg() > 0 {
		return cfg, "", errors.NewValueErrorf("parseFlags", "unexpected arguments: %v", fs.Args())
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = seed
		}
	})
	cfg.Scaler = preprocessing.Strategy(*scaler)
	cfg.Columns = splitList(*columns)
	cfg.Inputs = splitList(*inputs)
	cfg.Targets = splitList(*targets)

	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, *logLevel, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
