//go:build nobinaryencoding

package sqlgen

import "github.com/hugr-lab/binexpr/expr"

func encodeEncoding(expr.FunctionExpr, string) string { return "" }
