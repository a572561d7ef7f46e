package sqlgen

import (
	"testing"

	"github.com/hugr-lab/binexpr/expr"
)

func TestEncodeBinaryFunctions(t *testing.T) {
	b := expr.Col("b")

	tests := []struct {
		name     string
		e        expr.Expr
		expected string
	}{
		{"column", b, "b"},
		{"contains", b.Bin().ContainsLiteral(expr.Lit([]byte{0xde, 0xad})), `regexp_matches(hex(b), '^(?:..)*?' || 'DEAD')`},
		{"starts_with utf8", b.Bin().StartsWith(expr.Lit("ab")), "prefix(hex(b), '6162')"},
		{"ends_with column", b.Bin().EndsWith(expr.Col("p")), "suffix(hex(b), hex(p))"},
		{"null pattern", b.Bin().StartsWith(expr.Lit(nil)), "prefix(hex(b), NULL)"},
		{"size_bytes", b.Bin().SizeBytes(), "octet_length(b)"},
		{"slice", b.Bin().Slice(expr.Lit(2), expr.Lit(5)), "unhex(substring(hex(b), 5, 10))"},
		{"slice to end", b.Bin().Slice(expr.Lit(2), expr.Lit(nil)), "unhex(substring(hex(b), 5))"},
		{"slice negative offset", b.Bin().Slice(expr.Lit(-3), expr.Lit(2)), "unhex(substring(hex(b), 2 * greatest(octet_length(b) - 3, 0) + 1, 4))"},
		{"slice negative length", b.Bin().Slice(expr.Lit(1), expr.Lit(-1)), "unhex(substring(hex(b), 3, 0))"},
		{"slice null offset", b.Bin().Slice(expr.Lit(nil), expr.Lit(1)), "CAST(NULL AS BLOB)"},
		{"head", b.Bin().Head(expr.Lit(4)), "unhex(left(hex(b), 8))"},
		{"head negative", b.Bin().Head(expr.Lit(-1)), "unhex(substring(hex(b), 1, 2 * greatest(octet_length(b) - 1, 0)))"},
		{"tail", b.Bin().Tail(expr.Lit(uint8(3))), "unhex(right(hex(b), 6))"},
		{"tail negative", b.Bin().Tail(expr.Lit(-2)), "unhex(substring(hex(b), 5))"},
		{"alias is transparent", b.Bin().SizeBytes().Alias("n"), "octet_length(b)"},
		{"chained", b.Bin().Tail(expr.Lit(4)).Bin().SizeBytes(), "octet_length(unhex(right(hex(b), 8)))"},
		{"blob receiver", expr.Lit([]byte{0x01, 0xff}).Bin().SizeBytes(), `octet_length('\x01\xFF'::BLOB)`},
	}

	enc := NewDuckDBEncoder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sql := enc.Encode(tt.e); sql != tt.expected {
				t.Errorf("expected '%s', got '%s'", tt.expected, sql)
			}
		})
	}
}

func TestEncodeUnsupported(t *testing.T) {
	b := expr.Col("b")

	tests := []struct {
		name string
		e    expr.Expr
	}{
		{"column offset", b.Bin().Slice(expr.Col("o"), expr.Lit(1))},
		{"float count", b.Bin().Head(expr.Lit(1.5))},
		{"huge count", b.Bin().Tail(expr.Lit(int64(1) << 50))},
		{"integer pattern", b.Bin().ContainsLiteral(expr.Lit(42))},
		{"utf8 pattern without casting", expr.MapMany(b, expr.BinaryContains{}, []expr.Expr{expr.Lit("a")}, nil)},
		{"unsupported child", b.Bin().Head(expr.Col("n")).Bin().SizeBytes()},
		{"missing argument", expr.NewFunction(b, expr.BinaryHead{}, nil, expr.FunctionOptions{})},
		{"nil", nil},
	}

	enc := NewDuckDBEncoder(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sql := enc.Encode(tt.e); sql != "" {
				t.Errorf("expected unsupported, got '%s'", sql)
			}
		})
	}
}

func TestEncodeLiterals(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{nil, "NULL"},
		{true, "TRUE"},
		{int8(-3), "-3"},
		{uint64(1) << 63, "9223372036854775808"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{"it's", "'it''s'"},
		{[]byte{}, "''::BLOB"},
		{[]byte("A"), `'\x41'::BLOB`},
	}

	enc := NewDuckDBEncoder(nil)
	for _, tt := range tests {
		if sql := enc.Encode(expr.Lit(tt.value)); sql != tt.expected {
			t.Errorf("Lit(%v): expected '%s', got '%s'", tt.value, tt.expected, sql)
		}
	}
}

func TestEncodeColumnMapping(t *testing.T) {
	enc := NewDuckDBEncoder(&EncoderOptions{
		ColumnMapping: map[string]string{
			"b":     "raw_payload",
			"other": "select",
		},
		ColumnExpressions: map[string]string{
			"b": "decode_payload(raw)",
		},
	})

	if sql := enc.Encode(expr.Col("b").Bin().SizeBytes()); sql != "octet_length(decode_payload(raw))" {
		t.Errorf("expression should take precedence, got '%s'", sql)
	}
	if sql := enc.Encode(expr.Col("other")); sql != `"select"` {
		t.Errorf("expected quoted reserved word, got '%s'", sql)
	}
	if sql := enc.Encode(expr.Col("my col")); sql != `"my col"` {
		t.Errorf("expected quoted identifier, got '%s'", sql)
	}
}

func TestEncodeSelect(t *testing.T) {
	enc := NewDuckDBEncoder(nil)

	sql := enc.EncodeSelect("events",
		expr.Col("payload").Bin().SizeBytes().Alias("size"),
		expr.Col("payload").Bin().Head(expr.Lit(1)),
	)
	expected := "SELECT octet_length(payload) AS size, unhex(left(hex(payload), 2)) AS payload FROM events"
	if sql != expected {
		t.Errorf("expected '%s', got '%s'", expected, sql)
	}

	if sql := enc.EncodeSelect("events", expr.Col("payload").Bin().Head(expr.Col("n"))); sql != "" {
		t.Errorf("expected unsupported select, got '%s'", sql)
	}
	if sql := enc.EncodeSelect("events"); sql != "" {
		t.Errorf("expected empty select, got '%s'", sql)
	}
}
