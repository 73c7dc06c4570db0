package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

func TestTestLoggerLevels(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelInfo)

	testLogger.Debug("hidden")
	testLogger.Info("dataset loaded", SamplesKey, 32, FeaturesKey, 11)
	testLogger.Warn("ill-conditioned")
	testLogger.Error("run failed", fmt.Errorf("boom"), StageKey, "fit")

	require.NotEmpty(t, buffer.String())
	assert.False(t, testLogger.ContainsMessage("hidden"))
	assert.True(t, testLogger.ContainsMessage("dataset loaded"))
	assert.True(t, testLogger.ContainsField(SamplesKey, 32.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, testLogger.ContainsField(StageKey, "fit"))

	ctx := context.Background()
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))
}

func TestTestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	scoped := testLogger.With(ComponentKey, "pipeline", RunIDKey, "run-1")
	scoped.Info("stage done", OperationKey, OperationSplit)

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline", entries[0][ComponentKey])
	assert.Equal(t, "run-1", entries[0][RunIDKey])
	assert.Equal(t, OperationSplit, entries[0][OperationKey])
	assert.Equal(t, "INFO", entries[0]["level"])
}

func TestTestLoggerProvider(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("plain")
	provider.GetLoggerWithName("dataset").Info("named")

	out := buffer.String()
	assert.Contains(t, out, "plain")
	assert.Contains(t, out, `"ml.component":"dataset"`)

	provider.SetLevel(LevelError)
	provider.GetLogger().Info("dropped")
	assert.NotContains(t, buffer.String(), "dropped")
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.With(RunIDKey, "abc").Info("split done", TrainSamplesKey, 7, TestSamplesKey, 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "split done", lines[0]["message"])
	assert.Equal(t, "abc", lines[0][RunIDKey])
	assert.Equal(t, 7.0, lines[0][TrainSamplesKey])

	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestZerologLoggerStructuredError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := errors.Wrap(errors.NewFormatError(4, 2, "not a number"), "load")
	logger.Error("load failed", err, PathKey, "cars.csv")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0]["error"], "malformed input at row 4")
	detail, ok := lines[0]["error_detail"].(map[string]interface{})
	require.True(t, ok, "structured error detail expected, got %v", lines[0])
	assert.Equal(t, "FormatError", detail["type"])
	assert.Equal(t, 4.0, detail["row"])
	assert.Equal(t, "cars.csv", lines[0][PathKey])
}

func TestSetupLoggerRoutesWarnings(t *testing.T) {
	prev := GetLogger()
	defer func() {
		SetLogger(prev)
		errors.SetZerologWarnFunc(nil)
	}()

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, "debug"))

	errors.Warn(errors.NewConditionWarning("LinearRegression.Fit", 1e17))
	assert.Contains(t, buf.String(), "ConditionWarning")

	GetLoggerWithName("metrics").Info("from default")
	assert.Contains(t, buf.String(), `"ml.component":"metrics"`)

	slog.Error("slog record", ErrAttr(errors.New("with stack")))
	assert.Contains(t, buf.String(), `"severity":"ERROR"`)
}

func TestErrFmtHandlerAddsErrorType(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil)))

	err := errors.Wrapf(errors.NewShapeMismatchError("MSE", [2]int{3, 2}, [2]int{3, 1}), "stage %s", "evaluate")
	logger.Error("evaluation failed", ErrAttr(err))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ShapeMismatchError", record[ErrorTypeKey])
	assert.Contains(t, record[ErrAttrKey], "shape mismatch")

	buf.Reset()
	logger.Info("no error here", slog.Int(SamplesKey, 3))
	assert.NotContains(t, buf.String(), ErrorTypeKey)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "WARN", LevelWarn.String())
}
