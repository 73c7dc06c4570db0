package log

import (
	"context"
	"log/slog"

	cerrors "github.com/cockroachdb/errors"

	"github.com/YuminosukeSato/scisplit/pkg/errors"
)

// ErrFmtHandler is a slog handler that enriches records carrying an error
// under ErrAttrKey with the error's stack trace (StacktraceAttrKey) and
// its scisplit error type (ErrorTypeKey).
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with error enrichment.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrAttrKey {
			return true
		}
		err, _ = attr.Value.Any().(error)
		return false
	})
	if err != nil {
		if stacktrace := extractStacktrace(err); stacktrace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
		}
		if kind := errors.TypeName(err); kind != "" {
			r.AddAttrs(slog.String(ErrorTypeKey, kind))
		}
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// extractStacktrace returns the first safe detail of err, which for errors
// built with cockroachdb/errors is the formatted stack trace.
func extractStacktrace(err error) string {
	for _, detail := range cerrors.GetAllSafeDetails(err) {
		if len(detail.SafeDetails) > 0 {
			return detail.SafeDetails[0]
		}
	}
	return ""
}
