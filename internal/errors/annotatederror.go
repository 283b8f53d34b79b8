// Package errors wraps the standard errors package with an annotated error
// type that carries a human-readable context chain plus structured slog
// attributes, so error handling and error logging share one value instead of
// re-deriving a message at each layer.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
)

// Re-exported so callers never need to import the standard library errors
// package alongside this one.
var (
	New  = stderrors.New
	Is   = stderrors.Is
	As   = stderrors.As
	Join = stderrors.Join
)

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// NewSentinel creates a comparable base error suitable for errors.Is checks.
func NewSentinel(msg string) error {
	return stderrors.New(msg)
}

// annotatedError chains a human-readable context onto a wrapped error and
// carries structured attributes plus the call site of Wrap for logging.
type annotatedError struct {
	err     error
	context string
	attrs   []slog.Attr
	file    string
	line    int
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.context
	}
	return e.context + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// Wrap annotates err with context and optional structured attributes,
// recording the caller's file and line for later use by SlogError.
func Wrap(err error, context string, attrs ...slog.Attr) error {
	_, file, line, _ := runtime.Caller(1)
	return &annotatedError{
		err:     err,
		context: context,
		attrs:   attrs,
		file:    file,
		line:    line,
	}
}

// SlogError renders err as a structured "error" attribute group: a message,
// the annotations collected from every annotatedError in the chain, and the
// call site of the outermost annotation, if any.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Any("error", nil)
	}

	var (
		annotations []slog.Attr
		file        string
		line        int
	)

	cur := err
	for cur != nil {
		if ae, ok := cur.(*annotatedError); ok {
			annotations = append(annotations, ae.attrs...)
			if file == "" && ae.file != "" {
				file, line = ae.file, ae.line
			}
			cur = ae.err
			continue
		}
		unwrapper, ok := cur.(interface{ Unwrap() error })
		if !ok {
			break
		}
		cur = unwrapper.Unwrap()
	}

	groupArgs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		annotationArgs := make([]any, len(annotations))
		for i, a := range annotations {
			annotationArgs[i] = a
		}
		groupArgs = append(groupArgs, slog.Group("annotations", annotationArgs...))
	}
	if file != "" {
		groupArgs = append(groupArgs, slog.String("at", fmt.Sprintf("%s:%d", file, line)))
	}

	return slog.Group("error", groupArgs...)
}

// DecoratePanic converts a recovered panic value into an error carrying the
// call site of the original panic, for use in a deferred recover().
func DecoratePanic(recovered any) error {
	if recovered == nil {
		return nil
	}

	pcs := make([]uintptr, 32)
	n := runtime.Callers(1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var (
		file       string
		line       int
		foundPanic bool
	)
	for {
		frame, more := frames.Next()
		if foundPanic {
			file, line = frame.File, frame.Line
			break
		}
		if frame.Function == "runtime.gopanic" {
			foundPanic = true
		}
		if !more {
			break
		}
	}

	return &annotatedError{
		err:     nil,
		context: fmt.Sprintf("panic: %v", recovered),
		attrs:   nil,
		file:    file,
		line:    line,
	}
}
