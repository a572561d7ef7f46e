// Package sqlgen renders binary expression trees as DuckDB SQL so that
// binary column operations can be pushed down into a DuckDB backend.
//
// # Basic Usage
//
//	enc := sqlgen.NewDuckDBEncoder(nil)
//	sql := enc.Encode(expr.Col("payload").Bin().StartsWith(expr.Lit([]byte{0x01})))
//	// prefix(hex(payload), hex('\x01'::BLOB))
//
//	query := enc.EncodeSelect("events",
//	    expr.Col("payload").Bin().SizeBytes().Alias("size"),
//	)
//	// SELECT octet_length(payload) AS size FROM events
//
// # Column Mapping
//
// Map expression column names to backend storage names:
//
//	enc := sqlgen.NewDuckDBEncoder(&sqlgen.EncoderOptions{
//	    ColumnMapping: map[string]string{"payload": "raw_payload"},
//	})
//
// ColumnExpressions replaces a column with an arbitrary SQL expression and
// takes precedence over ColumnMapping.
//
// # Byte Semantics
//
// DuckDB string functions work on characters, not bytes. Search, slice,
// head and tail are therefore expressed over the uppercase hex rendering of
// the value, where every byte is exactly two characters, and converted back
// with unhex. Offsets and counts must be non-negative integer literals.
//
// # Unsupported Expressions
//
// Encode returns an empty string for anything DuckDB cannot evaluate with
// the same semantics: negative offsets, non-literal offsets, non-strict
// decoding and from_buffer. An unsupported sub-expression makes the whole
// expression unsupported, and EncodeSelect returns an empty string if any
// of its expressions is unsupported. Callers then fall back to the eval
// package.
package sqlgen
