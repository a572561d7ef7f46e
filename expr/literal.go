package expr

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
)

// LiteralExpression embeds a constant value in the tree.
type LiteralExpression struct {
	value any
	dtype arrow.DataType
}

// Lit returns a literal expression for v.
//
// Supported values are nil, bool, Go integers of any width, float32,
// float64, string and []byte. A plain int is stored as int64 and a plain
// uint as uint64. Byte slices are copied. Lit panics on any other type,
// which is a programming error rather than a data error.
func Lit(v any) *LiteralExpression {
	switch x := v.(type) {
	case nil:
		return &LiteralExpression{dtype: arrow.Null}
	case bool:
		return &LiteralExpression{value: x, dtype: arrow.FixedWidthTypes.Boolean}
	case int:
		return &LiteralExpression{value: int64(x), dtype: arrow.PrimitiveTypes.Int64}
	case int8:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Int8}
	case int16:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Int16}
	case int32:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Int32}
	case int64:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Int64}
	case uint:
		return &LiteralExpression{value: uint64(x), dtype: arrow.PrimitiveTypes.Uint64}
	case uint8:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Uint8}
	case uint16:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Uint16}
	case uint32:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Uint32}
	case uint64:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Uint64}
	case float32:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Float32}
	case float64:
		return &LiteralExpression{value: x, dtype: arrow.PrimitiveTypes.Float64}
	case string:
		return &LiteralExpression{value: x, dtype: arrow.BinaryTypes.String}
	case []byte:
		return &LiteralExpression{value: bytes.Clone(x), dtype: arrow.BinaryTypes.Binary}
	default:
		panic(fmt.Sprintf("expr: unsupported literal type %T", v))
	}
}

// Value returns the literal value. Byte slices are returned as copies.
func (l *LiteralExpression) Value() any {
	if b, ok := l.value.([]byte); ok {
		return bytes.Clone(b)
	}
	return l.value
}

// DataType returns the Arrow type of the literal.
func (l *LiteralExpression) DataType() arrow.DataType { return l.dtype }

// IsNull reports whether the literal is the null literal.
func (l *LiteralExpression) IsNull() bool { return l.value == nil }

// Int64 returns the literal as int64 when it is an integer that fits.
func (l *LiteralExpression) Int64() (int64, bool) {
	switch v := l.value.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > 1<<63-1 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

func (l *LiteralExpression) Children() []Expr { return nil }

func (l *LiteralExpression) String() string {
	switch v := l.value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case []byte:
		return "b" + strconv.Quote(string(v))
	default:
		return fmt.Sprint(v)
	}
}

func (l *LiteralExpression) Alias(name string) Expr { return newAlias(l, name) }

func (l *LiteralExpression) Bin() BinaryNameSpace { return BinaryNameSpace{e: l} }

func (l *LiteralExpression) exprMarker() {}

func literalEqual(a, b *LiteralExpression) bool {
	if !arrow.TypeEqual(a.dtype, b.dtype) {
		return false
	}
	if ab, ok := a.value.([]byte); ok {
		bb, ok := b.value.([]byte)
		return ok && bytes.Equal(ab, bb)
	}
	return a.value == b.value
}

// Equal reports whether two trees are structurally equal: same node types,
// same functions and parameters, same options, equal children in the same
// order.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *ColumnExpression:
		y, ok := b.(*ColumnExpression)
		return ok && x.name == y.name
	case *LiteralExpression:
		y, ok := b.(*LiteralExpression)
		return ok && literalEqual(x, y)
	case *AliasExpression:
		y, ok := b.(*AliasExpression)
		return ok && x.name == y.name && Equal(x.expr, y.expr)
	case *FunctionExpression:
		y, ok := b.(*FunctionExpression)
		if !ok || !FunctionEqual(x.fn, y.fn) || !optionsEqual(x.opts, y.opts) {
			return false
		}
		if len(x.args) != len(y.args) || !Equal(x.input, y.input) {
			return false
		}
		for i := range x.args {
			if !Equal(x.args[i], y.args[i]) {
				return false
			}
		}
		return true
	}
	return false
}
