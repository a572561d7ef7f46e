//go:build nobinaryencoding

package plan

import (
	"github.com/hugr-lab/binexpr/expr"
)

func encodeEncodingParams(expr.FunctionExpr) (*wireParams, bool, error) {
	return nil, false, nil
}

func decodeEncodingFunction(string, wireParams) (expr.FunctionExpr, bool, error) {
	return nil, false, nil
}
