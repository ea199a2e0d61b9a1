package log

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrFmtHandler is a slog handler that expands errors logged through ErrAttr:
// it adds the cockroachdb/errors stack trace and the concrete error type of
// the innermost cause (e.g. "CompileError").
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps the given slog handler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var logged error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			logged, _ = attr.Value.Any().(error)
			return false
		}
		return true
	})
	if logged != nil {
		if stacktrace := extractStacktrace(logged); stacktrace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
		}
		r.AddAttrs(slog.String(ErrorTypeKey, errorType(logged)))
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

// errorType returns the type name of the outermost error in the chain that
// is not a cockroachdb/errors wrapper.
func errorType(err error) string {
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		t := reflect.TypeOf(e)
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if !strings.Contains(t.PkgPath(), "cockroachdb") {
			return t.Name()
		}
	}
	return fmt.Sprintf("%T", errors.UnwrapAll(err))
}
