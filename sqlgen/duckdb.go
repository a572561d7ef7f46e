package sqlgen

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/hugr-lab/binexpr/expr"
)

// maxByteOffset bounds integer arguments so that doubled hex offsets
// cannot overflow.
const maxByteOffset = 1 << 40

// DuckDBEncoder encodes expression trees to DuckDB SQL syntax.
// It holds no per-call state and is safe for concurrent use.
type DuckDBEncoder struct {
	opts *EncoderOptions
}

var _ Encoder = (*DuckDBEncoder)(nil)

// NewDuckDBEncoder creates a new DuckDB SQL encoder.
// If opts is nil, default options are used.
func NewDuckDBEncoder(opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{opts: opts}
}

// EncodeSelect builds SELECT <exprs> FROM <table>.
// Returns empty string if any expression is unsupported.
func (e *DuckDBEncoder) EncodeSelect(table string, exprs ...expr.Expr) string {
	if len(exprs) == 0 {
		return ""
	}

	cols := make([]string, 0, len(exprs))
	for _, ex := range exprs {
		encoded := e.Encode(ex)
		if encoded == "" {
			return ""
		}
		cols = append(cols, encoded+" AS "+quoteIdentifier(expr.OutputName(ex)))
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + quoteIdentifier(table)
}

// Encode converts a single expression to SQL.
// Returns empty string if expression is unsupported.
func (e *DuckDBEncoder) Encode(ex expr.Expr) string {
	switch x := ex.(type) {
	case *expr.ColumnExpression:
		return e.encodeColumn(x)
	case *expr.LiteralExpression:
		return e.encodeLiteral(x)
	case *expr.AliasExpression:
		// aliases only name outputs, see EncodeSelect
		return e.Encode(x.Expr())
	case *expr.FunctionExpression:
		if _, ok := x.Function().(expr.BinaryFunction); !ok {
			return ""
		}
		return e.encodeBinary(x)
	default:
		return ""
	}
}

// encodeColumn encodes a column reference.
func (e *DuckDBEncoder) encodeColumn(c *expr.ColumnExpression) string {
	name := c.Name()

	// Check for expression mapping first (takes precedence)
	if e.opts.ColumnExpressions != nil {
		if sql, ok := e.opts.ColumnExpressions[name]; ok {
			return sql
		}
	}

	if e.opts.ColumnMapping != nil {
		if mapped, ok := e.opts.ColumnMapping[name]; ok {
			name = mapped
		}
	}
	return quoteIdentifier(name)
}

// encodeLiteral encodes a constant value.
func (e *DuckDBEncoder) encodeLiteral(l *expr.LiteralExpression) string {
	if n, ok := l.Int64(); ok {
		return strconv.FormatInt(n, 10)
	}

	switch v := l.Value().(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case string:
		return quoteLiteral(v)
	case []byte:
		return formatBlob(v)
	default:
		return ""
	}
}

func formatFloat(v float64, bits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}

// formatBlob formats bytes as a DuckDB blob literal, e.g. '\xDE\xAD'::BLOB.
func formatBlob(v []byte) string {
	const digits = "0123456789ABCDEF"

	var sb strings.Builder
	sb.Grow(len(v)*4 + 8)
	sb.WriteByte('\'')
	for _, b := range v {
		sb.WriteString(`\x`)
		sb.WriteByte(digits[b>>4])
		sb.WriteByte(digits[b&0x0f])
	}
	sb.WriteString("'::BLOB")
	return sb.String()
}

// encodeBinary encodes a bin namespace function. The receiver is rendered
// once per use; DuckDB deduplicates common sub-expressions.
func (e *DuckDBEncoder) encodeBinary(f *expr.FunctionExpression) string {
	x := e.Encode(f.Input())
	if x == "" {
		return ""
	}

	switch f.Function().(type) {
	case expr.BinaryContains:
		if p := e.hexOperand(f, 0); p != "" {
			// anchor the match to a byte boundary of the hex text
			return "regexp_matches(hex(" + x + "), '^(?:..)*?' || " + p + ")"
		}
	case expr.BinaryStartsWith:
		if p := e.hexOperand(f, 0); p != "" {
			return "prefix(hex(" + x + "), " + p + ")"
		}
	case expr.BinaryEndsWith:
		if p := e.hexOperand(f, 0); p != "" {
			return "suffix(hex(" + x + "), " + p + ")"
		}
	case expr.BinarySize:
		return "octet_length(" + x + ")"
	case expr.BinarySlice:
		return e.encodeSlice(f, x)
	case expr.BinaryHead:
		return e.encodeHeadTail(f, x, true)
	case expr.BinaryTail:
		return e.encodeHeadTail(f, x, false)
	default:
		return encodeEncoding(f.Function(), x)
	}
	return ""
}

// hexOperand renders search argument i as uppercase hex text. Byte and
// string literals are converted here, other expressions through hex().
func (e *DuckDBEncoder) hexOperand(f *expr.FunctionExpression, i int) string {
	if f.NumArgs() <= i {
		return ""
	}
	arg := f.Arg(i)
	if lit, ok := arg.(*expr.LiteralExpression); ok {
		switch v := lit.Value().(type) {
		case nil:
			return "NULL"
		case []byte:
			return quoteLiteral(strings.ToUpper(hex.EncodeToString(v)))
		case string:
			if f.Options().CastsArguments() {
				return quoteLiteral(strings.ToUpper(hex.EncodeToString([]byte(v))))
			}
		}
		return ""
	}
	p := e.Encode(arg)
	if p == "" {
		return ""
	}
	return "hex(" + p + ")"
}

// intArg returns integer literal argument i. A null literal reports
// isNull; anything else that is not an integer literal is unsupported.
func intArg(f *expr.FunctionExpression, i int) (n int64, isNull, ok bool) {
	if f.NumArgs() <= i {
		return 0, false, false
	}
	lit, isLit := f.Arg(i).(*expr.LiteralExpression)
	if !isLit {
		return 0, false, false
	}
	if lit.IsNull() {
		return 0, true, true
	}
	n, ok = lit.Int64()
	if !ok || n > maxByteOffset || n < -maxByteOffset {
		return 0, false, false
	}
	return n, false, true
}

// hexStart returns the 1-based hex position of byte offset off.
func hexStart(x string, off int64) string {
	if off >= 0 {
		return strconv.FormatInt(2*off+1, 10)
	}
	return "2 * greatest(octet_length(" + x + ") - " + strconv.FormatInt(-off, 10) + ", 0) + 1"
}

func (e *DuckDBEncoder) encodeSlice(f *expr.FunctionExpression, x string) string {
	off, offNull, ok := intArg(f, 0)
	if !ok {
		return ""
	}
	length, lenNull, ok := intArg(f, 1)
	if !ok {
		return ""
	}
	if offNull {
		return "CAST(NULL AS BLOB)"
	}
	if lenNull {
		return "unhex(substring(hex(" + x + "), " + hexStart(x, off) + "))"
	}
	if length < 0 {
		length = 0
	}
	return "unhex(substring(hex(" + x + "), " + hexStart(x, off) + ", " + strconv.FormatInt(2*length, 10) + "))"
}

func (e *DuckDBEncoder) encodeHeadTail(f *expr.FunctionExpression, x string, head bool) string {
	n, isNull, ok := intArg(f, 0)
	if !ok {
		return ""
	}
	switch {
	case isNull:
		return "CAST(NULL AS BLOB)"
	case head && n >= 0:
		return "unhex(left(hex(" + x + "), " + strconv.FormatInt(2*n, 10) + "))"
	case head:
		return "unhex(substring(hex(" + x + "), 1, 2 * greatest(octet_length(" + x + ") - " + strconv.FormatInt(-n, 10) + ", 0)))"
	case n >= 0:
		return "unhex(right(hex(" + x + "), " + strconv.FormatInt(2*n, 10) + "))"
	default:
		return "unhex(substring(hex(" + x + "), " + strconv.FormatInt(-2*n+1, 10) + "))"
	}
}
