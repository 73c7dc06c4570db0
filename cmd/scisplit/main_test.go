package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scisplit/pipeline"
	"github.com/YuminosukeSato/scisplit/pkg/errors"
	"github.com/YuminosukeSato/scisplit/pkg/log"
)

const tenBySeven = `21,6,160,110,3.9,2.62,16.46
22.8,4,108,93,3.85,2.32,18.61
21.4,6,258,110,3.08,3.215,19.44
18.7,8,360,175,3.15,3.44,17.02
18.1,6,225,105,2.76,3.46,20.22
14.3,8,360.5,245,3.21,3.57,15.84
24.4,4,146.7,62,3.69,3.19,20
22.9,4,140.8,95,3.92,3.15,22.9
19.2,6,167.6,123,3.92,3.44,18.3
17.8,6,167.7,124,3.93,3.44,18.9
`

func TestParseFlagsDefaults(t *testing.T) {
	cfg, level, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "info", level)
	assert.Equal(t, pipeline.DefaultConfig(), cfg)
	assert.Nil(t, cfg.Seed)
}

func TestParseFlags(t *testing.T) {
	cfg, level, err := parseFlags([]string{
		"-input", "data.csv",
		"-out", "out",
		"-test-fraction", "0.25",
		"-seed", "0",
		"-scaler", "minmax",
		"-inputs", "mpg, cyl",
		"-targets", "hp",
		"-precision", "4",
		"-scale-factors",
		"-log-level", "debug",
	}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "debug", level)
	assert.Equal(t, "data.csv", cfg.InputPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 0.25, cfg.TestFraction)
	require.NotNil(t, cfg.Seed, "an explicit zero seed is still a seed")
	assert.Equal(t, uint64(0), *cfg.Seed)
	assert.Equal(t, []string{"mpg", "cyl"}, cfg.Inputs)
	assert.Equal(t, []string{"hp"}, cfg.Targets)
	assert.Equal(t, 4, cfg.Precision)
	assert.True(t, cfg.WriteScaleFactors)
}

func TestParseFlagsInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"-test-fraction", "1.5"},
		{"-scaler", "zscore"},
		{"-inputs", ""},
		{"extra"},
	} {
		_, _, err := parseFlags(args, io.Discard)
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr), "args %v: %v", args, err)
	}

	_, _, err := parseFlags([]string{"-no-such-flag"}, io.Discard)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	prev := log.GetLogger()
	t.Cleanup(func() { log.SetLogger(prev) })

	dir := t.TempDir()
	input := filepath.Join(dir, "cars.csv")
	require.NoError(t, os.WriteFile(input, []byte(tenBySeven), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-input", input,
		"-out", dir,
		"-test-fraction", "0.3",
		"-seed", "7",
	}, &stdout, &stderr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Training MSE: "))
	assert.True(t, strings.HasPrefix(lines[1], "Test MSE: "))
	assert.Contains(t, stderr.String(), "run finished")

	for _, name := range []string{
		pipeline.TrainInputsFile, pipeline.TestInputsFile,
		pipeline.TrainTargetsFile, pipeline.TestTargetsFile,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
