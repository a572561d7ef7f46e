//go:build !nobinaryencoding

package sqlgen

import "github.com/hugr-lab/binexpr/expr"

// encodeEncoding encodes the codec functions. DuckDB raises an error on
// malformed hex or base64, which matches strict decoding only. unhex
// accepts odd-length input, so that case is rejected explicitly.
func encodeEncoding(fn expr.FunctionExpr, x string) string {
	switch f := fn.(type) {
	case expr.BinaryHexEncode:
		return "lower(hex(" + x + "))"
	case expr.BinaryBase64Encode:
		return "to_base64(" + x + ")"
	case expr.BinaryHexDecode:
		if f.Strict {
			s := "CAST(" + x + " AS VARCHAR)"
			return "CASE WHEN length(" + s + ") % 2 = 1 THEN error('invalid hex length') ELSE unhex(" + s + ") END"
		}
	case expr.BinaryBase64Decode:
		if f.Strict {
			return "from_base64(CAST(" + x + " AS VARCHAR))"
		}
	}
	return ""
}
