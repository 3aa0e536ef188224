package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// AnnotatedError includes more context than a plain error that is useful for troubleshooting.
type AnnotatedError struct {
	// msg describes what was being done when the error happened.
	msg string
	// cause is the wrapped error, nil for errors created with New.
	cause error
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
}

func callerPC() uintptr {
	var pcs [1]uintptr
	// Skip runtime.Callers, callerPC and the exported constructor.
	runtime.Callers(3, pcs[:]) //nolint:mnd // see above
	return pcs[0]
}

// New creates a new AnnotatedError with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	return &AnnotatedError{
		msg:   msg,
		cause: nil,
		pc:    callerPC(),
		attrs: attrs,
	}
}

// Wrap annotates err with msg and attrs. The annotation records the caller so that the log shows where the error
// passed through. Wrap returns nil when err is nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &AnnotatedError{
		msg:   msg,
		cause: err,
		pc:    callerPC(),
		attrs: attrs,
	}
}

// NewSentinel creates a plain error without other context that can be used as sentinel error detected with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg) //nolint:goerr113 // this is the sentinel constructor
}

// Error implements error interface.
func (e *AnnotatedError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.cause.Error())
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *AnnotatedError) Unwrap() error {
	return e.cause
}

func (e *AnnotatedError) source() string {
	frames := runtime.CallersFrames([]uintptr{e.pc})
	frame, _ := frames.Next()
	return fmt.Sprintf("%s:%d", frame.File, frame.Line)
}

// LogValue formats the error for useful logging.
//
// The attributes of every AnnotatedError in the chain are gathered so that context added by the callers is not lost.
// The source points to the innermost annotation which is closest to the root cause.
func (e *AnnotatedError) LogValue() slog.Value {
	var (
		attrs  []slog.Attr
		source string
		err    error = e
	)
	for err != nil {
		var annotated *AnnotatedError
		if !errors.As(err, &annotated) {
			break
		}
		attrs = append(attrs, annotated.attrs...)
		source = annotated.source()
		err = annotated.cause
	}
	attrs = append([]slog.Attr{
		slog.String("msg", e.Error()),
		slog.String("source", source),
	}, attrs...)
	return slog.GroupValue(attrs...)
}

// SlogError returns the error as a slog attribute with the key "error".
func SlogError(err error) slog.Attr {
	var annotated *AnnotatedError
	if errors.As(err, &annotated) && annotated != err { //nolint:errorlint // pointer identity is intended
		// The outermost error may be plain, e.g., joined errors. Keep its message.
		return slog.Group("error", slog.String("msg", err.Error()), slog.Any("cause", annotated))
	}
	if annotated != nil {
		return slog.Any("error", annotated)
	}
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
