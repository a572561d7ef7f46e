//go:build nobinaryencoding

package eval

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/binexpr/expr"
)

func (ev *Evaluator) evalEncoding(expr.FunctionExpr, bytesAt, int) (arrow.Array, bool, error) {
	return nil, false, nil
}
