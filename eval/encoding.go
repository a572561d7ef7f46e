//go:build !nobinaryencoding

package eval

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/binexpr/expr"
)

func (ev *Evaluator) evalEncoding(fn expr.FunctionExpr, values bytesAt, n int) (arrow.Array, bool, error) {
	switch f := fn.(type) {
	case expr.BinaryHexEncode:
		return ev.encode(values, n, hex.EncodeToString), true, nil
	case expr.BinaryBase64Encode:
		return ev.encode(values, n, base64.StdEncoding.EncodeToString), true, nil
	case expr.BinaryHexDecode:
		out, err := ev.decode(values, n, f.Strict, hex.DecodeString)
		return out, true, err
	case expr.BinaryBase64Decode:
		out, err := ev.decode(values, n, f.Strict, base64.StdEncoding.DecodeString)
		return out, true, err
	case expr.BinaryFromBuffer:
		out, err := ev.fromBuffer(values, n, f.TargetType, f.LittleEndian)
		return out, true, err
	}
	return nil, false, nil
}

func (ev *Evaluator) encode(values bytesAt, n int, enc func([]byte) string) arrow.Array {
	b := array.NewStringBuilder(ev.mem)
	defer b.Release()
	b.Reserve(n)

	for i := 0; i < n; i++ {
		v, ok := values(i)
		if !ok {
			b.AppendNull()
			continue
		}
		b.Append(enc(v))
	}
	return b.NewArray()
}

// decode parses each value with dec. In strict mode the first malformed
// value aborts with a RowError, otherwise it becomes null.
func (ev *Evaluator) decode(values bytesAt, n int, strict bool, dec func(string) ([]byte, error)) (arrow.Array, error) {
	b := array.NewBinaryBuilder(ev.mem, arrow.BinaryTypes.Binary)
	defer b.Release()
	b.Reserve(n)

	for i := 0; i < n; i++ {
		v, ok := values(i)
		if !ok {
			b.AppendNull()
			continue
		}
		out, err := dec(string(v))
		if err != nil {
			if strict {
				return nil, &RowError{Row: i, Err: fmt.Errorf("%w: %v", ErrInvalidEncoding, err)}
			}
			b.AppendNull()
			continue
		}
		b.Append(out)
	}
	return b.NewArray(), nil
}

// fromBuffer reinterprets each value as one fixed-width number.
func (ev *Evaluator) fromBuffer(values bytesAt, n int, dt arrow.DataType, littleEndian bool) (arrow.Array, error) {
	fw, ok := dt.(arrow.FixedWidthDataType)
	if !ok || !(arrow.IsInteger(dt.ID()) || arrow.IsFloating(dt.ID())) || dt.ID() == arrow.FLOAT16 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dt)
	}
	width := fw.BitWidth() / 8

	var order binary.ByteOrder = binary.BigEndian
	if littleEndian {
		order = binary.LittleEndian
	}

	b := array.NewBuilder(ev.mem, dt)
	defer b.Release()
	b.Reserve(n)

	for i := 0; i < n; i++ {
		v, ok := values(i)
		if !ok {
			b.AppendNull()
			continue
		}
		if len(v) != width {
			return nil, &RowError{Row: i, Err: fmt.Errorf("%w: got %d bytes, %s needs %d", ErrBufferSize, len(v), dt, width)}
		}

		switch bb := b.(type) {
		case *array.Int8Builder:
			bb.Append(int8(v[0]))
		case *array.Uint8Builder:
			bb.Append(v[0])
		case *array.Int16Builder:
			bb.Append(int16(order.Uint16(v)))
		case *array.Uint16Builder:
			bb.Append(order.Uint16(v))
		case *array.Int32Builder:
			bb.Append(int32(order.Uint32(v)))
		case *array.Uint32Builder:
			bb.Append(order.Uint32(v))
		case *array.Int64Builder:
			bb.Append(int64(order.Uint64(v)))
		case *array.Uint64Builder:
			bb.Append(order.Uint64(v))
		case *array.Float32Builder:
			bb.Append(math.Float32frombits(order.Uint32(v)))
		case *array.Float64Builder:
			bb.Append(math.Float64frombits(order.Uint64(v)))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dt)
		}
	}
	return b.NewArray(), nil
}
