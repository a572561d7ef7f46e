package eval

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/hugr-lab/binexpr/expr"
)

func (ev *Evaluator) search(values bytesAt, arg arrow.Array, opts expr.FunctionOptions, n int, match func(v, pat []byte) bool) (arrow.Array, error) {
	patterns, err := patternValues(arg, opts)
	if err != nil {
		return nil, err
	}

	b := array.NewBooleanBuilder(ev.mem)
	defer b.Release()
	b.Reserve(n)

	for i := 0; i < n; i++ {
		v, ok := values(i)
		pat, patOK := patterns(i)
		if !ok || !patOK {
			b.AppendNull()
			continue
		}
		b.Append(match(v, pat))
	}
	return b.NewArray(), nil
}

func (ev *Evaluator) size(values bytesAt, n int) arrow.Array {
	b := array.NewUint32Builder(ev.mem)
	defer b.Release()
	b.Reserve(n)

	for i := 0; i < n; i++ {
		v, ok := values(i)
		if !ok {
			b.AppendNull()
			continue
		}
		b.Append(uint32(len(v)))
	}
	return b.NewArray()
}

func (ev *Evaluator) slice(values bytesAt, offsetArg, lengthArg arrow.Array, n int) (arrow.Array, error) {
	offsets, err := intValues(offsetArg)
	if err != nil {
		return nil, err
	}
	lengths, err := intValues(lengthArg)
	if err != nil {
		return nil, err
	}

	b := array.NewBinaryBuilder(ev.mem, arrow.BinaryTypes.Binary)
	defer b.Release()
	b.Reserve(n)

	for i := 0; i < n; i++ {
		v, ok := values(i)
		offset, offsetOK := offsets(i)
		if !ok || !offsetOK {
			b.AppendNull()
			continue
		}
		length, hasLength := lengths(i)
		b.Append(sliceBytes(v, offset, length, hasLength))
	}
	return b.NewArray(), nil
}

func (ev *Evaluator) takeBytes(values bytesAt, countArg arrow.Array, n int, take func([]byte, int64) []byte) (arrow.Array, error) {
	counts, err := intValues(countArg)
	if err != nil {
		return nil, err
	}

	b := array.NewBinaryBuilder(ev.mem, arrow.BinaryTypes.Binary)
	defer b.Release()
	b.Reserve(n)

	for i := 0; i < n; i++ {
		v, ok := values(i)
		k, countOK := counts(i)
		if !ok || !countOK {
			b.AppendNull()
			continue
		}
		b.Append(take(v, k))
	}
	return b.NewArray(), nil
}

// sliceBytes returns length bytes of v starting at offset. A negative offset
// counts from the end. Bounds are clamped to the value.
func sliceBytes(v []byte, offset, length int64, hasLength bool) []byte {
	n := int64(len(v))
	start := offset
	if start < 0 {
		start += n
		if start < 0 {
			start = 0
		}
	}
	if start > n {
		start = n
	}

	end := n
	if hasLength {
		if length < 0 {
			length = 0
		}
		if length < n-start {
			end = start + length
		}
	}
	return v[start:end]
}

// headBytes returns the first k bytes, or all but the last -k when k < 0.
func headBytes(v []byte, k int64) []byte {
	n := int64(len(v))
	switch {
	case k >= n:
		return v
	case k >= 0:
		return v[:k]
	case k <= -n:
		return v[:0]
	default:
		return v[:n+k]
	}
}

// tailBytes returns the last k bytes, or all but the first -k when k < 0.
func tailBytes(v []byte, k int64) []byte {
	n := int64(len(v))
	switch {
	case k >= n:
		return v
	case k >= 0:
		return v[n-k:]
	case k <= -n:
		return v[n:]
	default:
		return v[-k:]
	}
}
