// Package recovery turns panics raised while serving an exchange into
// errors, so a faulty plan or evaluator bug fails one request instead of
// the whole server.
package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrPanic is wrapped by every error produced from a recovered panic.
var ErrPanic = errors.New("panic recovered")

// Do runs fn and converts a panic into an error wrapping ErrPanic.
// The panic value and stack are logged at error level.
//
// Example:
//
//	err := recovery.Do(logger, "read input", func() error {
//	    return readBatches(ctx)
//	})
func Do(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recovered(logger, operation, r)
		}
	}()
	return fn()
}

// Value is Do for functions that also return a value. On panic the zero
// value is returned.
func Value[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = recovered(logger, operation, r)
		}
	}()
	return fn()
}

func recovered(logger *slog.Logger, operation string, r any) error {
	logger.Error("Panic recovered",
		"operation", operation,
		"panic", r,
		"stack", string(debug.Stack()),
	)
	return fmt.Errorf("%w: %s: %v", ErrPanic, operation, r)
}
