package eval

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound indicates a column reference missing from the batch.
	ErrColumnNotFound = errors.New("column not found")

	// ErrTypeMismatch indicates an operand of the wrong Arrow type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrLengthMismatch indicates operands that cannot be broadcast together.
	ErrLengthMismatch = errors.New("operand length mismatch")

	// ErrInvalidEncoding indicates malformed hex or base64 input in strict mode.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrBufferSize indicates a value whose length does not match the
	// from_buffer target width.
	ErrBufferSize = errors.New("invalid buffer size")

	// ErrUnsupportedType indicates a from_buffer target type that cannot be
	// reinterpreted.
	ErrUnsupportedType = errors.New("unsupported target type")

	// ErrArity indicates a function node with the wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")

	// ErrUnsupportedExpression indicates a node this executor does not know.
	ErrUnsupportedExpression = errors.New("unsupported expression")
)

// RowError reports a data error at a specific row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
