//go:build !nobinaryencoding

package geo

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/binexpr/expr"
)

// TypeCode reads the geometry type code of each WKB value as uint32.
func TypeCode(e expr.Expr, littleEndian bool) expr.Expr {
	return e.Bin().
		Slice(expr.Lit(typeOffset), expr.Lit(wordSize)).
		Bin().FromBuffer(arrow.PrimitiveTypes.Uint32, littleEndian)
}

// X reads the x coordinate of WKB points.
func X(e expr.Expr, littleEndian bool) expr.Expr {
	return coord(e, pointXOffset, littleEndian)
}

// Y reads the y coordinate of WKB points.
func Y(e expr.Expr, littleEndian bool) expr.Expr {
	return coord(e, pointYOffset, littleEndian)
}

func coord(e expr.Expr, offset int, littleEndian bool) expr.Expr {
	return e.Bin().
		Slice(expr.Lit(offset), expr.Lit(coordSize)).
		Bin().FromBuffer(arrow.PrimitiveTypes.Float64, littleEndian)
}
