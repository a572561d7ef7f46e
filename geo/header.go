package geo

import "github.com/hugr-lab/binexpr/expr"

// WKB header layout.
const (
	byteOrderOffset = 0
	typeOffset      = 1
	pointXOffset    = 5
	pointYOffset    = 13
	wordSize        = 4
	coordSize       = 8
)

// ByteOrder returns the one-byte order marker of each WKB value:
// 0x01 for little endian, 0x00 for big endian.
func ByteOrder(e expr.Expr) expr.Expr {
	return e.Bin().Head(expr.Lit(byteOrderOffset + 1))
}

// IsLittleEndian tests the byte order marker.
func IsLittleEndian(e expr.Expr) expr.Expr {
	return e.Bin().StartsWith(expr.Lit([]byte{0x01}))
}
