package eval

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/binexpr/expr"
)

// bytesAt returns the value at row i and whether it is valid.
type bytesAt func(i int) ([]byte, bool)

// intAt returns the integer at row i and whether it is valid.
type intAt func(i int) (int64, bool)

// rowOf maps an output row to the operand row, broadcasting length-1 operands.
func rowOf(arr arrow.Array, i int) int {
	if arr.Len() == 1 {
		return 0
	}
	return i
}

// resultLen returns the common length of the operands.
func resultLen(arrs ...arrow.Array) (int, error) {
	n := 1
	for _, a := range arrs {
		l := a.Len()
		switch {
		case l == 1:
		case n == 1:
			n = l
		case l != n:
			return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, n, l)
		}
	}
	return n, nil
}

type binaryValuer interface {
	arrow.Array
	Value(i int) []byte
}

func bytesOf(a binaryValuer) bytesAt {
	return func(i int) ([]byte, bool) {
		i = rowOf(a, i)
		if a.IsNull(i) {
			return nil, false
		}
		return a.Value(i), true
	}
}

func nulls(int) ([]byte, bool) { return nil, false }

// binaryValues accesses a receiver, which must hold binary data.
func binaryValues(arr arrow.Array) (bytesAt, error) {
	switch a := arr.(type) {
	case *array.Binary:
		return bytesOf(a), nil
	case *array.LargeBinary:
		return bytesOf(a), nil
	case *array.FixedSizeBinary:
		return bytesOf(a), nil
	case *array.Null:
		return nulls, nil
	case array.ExtensionArray:
		return binaryValues(a.Storage())
	}
	return nil, fmt.Errorf("%w: expected binary, got %s", ErrTypeMismatch, arr.DataType())
}

// patternValues accesses a search argument, casting it to binary when the
// node options allow it.
func patternValues(arr arrow.Array, opts expr.FunctionOptions) (bytesAt, error) {
	if values, err := binaryValues(arr); err == nil {
		return values, nil
	}
	if !opts.CastsArguments() {
		return nil, fmt.Errorf("%w: expected binary argument, got %s (casting disabled)", ErrTypeMismatch, arr.DataType())
	}

	switch a := arr.(type) {
	case *array.String:
		return func(i int) ([]byte, bool) {
			i = rowOf(a, i)
			if a.IsNull(i) {
				return nil, false
			}
			return []byte(a.Value(i)), true
		}, nil
	case *array.LargeString:
		return func(i int) ([]byte, bool) {
			i = rowOf(a, i)
			if a.IsNull(i) {
				return nil, false
			}
			return []byte(a.Value(i)), true
		}, nil
	}

	id := arr.DataType().ID()
	primitive := arrow.IsInteger(id) || arrow.IsFloating(id) || id == arrow.BOOL
	if primitive && opts.CastToSupertypes.AllowPrimitiveToString {
		return func(i int) ([]byte, bool) {
			i = rowOf(arr, i)
			if arr.IsNull(i) {
				return nil, false
			}
			return []byte(arr.ValueStr(i)), true
		}, nil
	}
	return nil, fmt.Errorf("%w: cannot cast %s argument to binary", ErrTypeMismatch, arr.DataType())
}

type integerValuer[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32] interface {
	arrow.Array
	Value(i int) T
}

func intsOf[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32](a integerValuer[T]) intAt {
	return func(i int) (int64, bool) {
		i = rowOf(a, i)
		if a.IsNull(i) {
			return 0, false
		}
		return int64(a.Value(i)), true
	}
}

// intValues accesses an integral argument. No casting is applied.
func intValues(arr arrow.Array) (intAt, error) {
	switch a := arr.(type) {
	case *array.Int8:
		return intsOf[int8](a), nil
	case *array.Int16:
		return intsOf[int16](a), nil
	case *array.Int32:
		return intsOf[int32](a), nil
	case *array.Int64:
		return intsOf[int64](a), nil
	case *array.Uint8:
		return intsOf[uint8](a), nil
	case *array.Uint16:
		return intsOf[uint16](a), nil
	case *array.Uint32:
		return intsOf[uint32](a), nil
	case *array.Uint64:
		return func(i int) (int64, bool) {
			i = rowOf(a, i)
			if a.IsNull(i) {
				return 0, false
			}
			v := a.Value(i)
			if v > math.MaxInt64 {
				return math.MaxInt64, true
			}
			return int64(v), true
		}, nil
	case *array.Null:
		return func(int) (int64, bool) { return 0, false }, nil
	}
	return nil, fmt.Errorf("%w: expected integer argument, got %s", ErrTypeMismatch, arr.DataType())
}
