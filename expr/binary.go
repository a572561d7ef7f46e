package expr

// BinaryNamespaceName is the namespace reported by every BinaryFunction.
const BinaryNamespaceName = "bin"

// BinaryFunction is the closed set of functions over binary data.
// Only the Binary* types of this package implement it.
type BinaryFunction interface {
	FunctionExpr
	binaryFunctionMarker()
}

type binaryBase struct{}

func (binaryBase) Namespace() string { return BinaryNamespaceName }
func (binaryBase) functionMarker() {}
func (binaryBase) binaryFunctionMarker() {}

// BinaryContains tests whether a value contains a byte sequence.
type BinaryContains struct{ binaryBase }

func (BinaryContains) Name() string { return "contains" }
func (BinaryContains) String() string { return "contains" }

// BinaryStartsWith tests whether a value starts with a byte sequence.
type BinaryStartsWith struct{ binaryBase }

func (BinaryStartsWith) Name() string { return "starts_with" }
func (BinaryStartsWith) String() string { return "starts_with" }

// BinaryEndsWith tests whether a value ends with a byte sequence.
type BinaryEndsWith struct{ binaryBase }

func (BinaryEndsWith) Name() string { return "ends_with" }
func (BinaryEndsWith) String() string { return "ends_with" }

// BinarySize yields the number of bytes of each value.
type BinarySize struct{ binaryBase }

func (BinarySize) Name() string { return "size_bytes" }
func (BinarySize) String() string { return "size_bytes" }

// BinarySlice takes offset and length arguments.
type BinarySlice struct{ binaryBase }

func (BinarySlice) Name() string { return "slice" }
func (BinarySlice) String() string { return "slice" }

// BinaryHead takes the first n bytes.
type BinaryHead struct{ binaryBase }

func (BinaryHead) Name() string { return "head" }
func (BinaryHead) String() string { return "head" }

// BinaryTail takes the last n bytes.
type BinaryTail struct{ binaryBase }

func (BinaryTail) Name() string { return "tail" }
func (BinaryTail) String() string { return "tail" }

// BinaryNameSpace builds binary functions on top of an expression.
// Obtain one with Expr.Bin.
type BinaryNameSpace struct {
	e Expr
}

// ContainsLiteral checks if a binary value contains the literal bytes of pat.
// The pattern is not a regular expression.
func (ns BinaryNameSpace) ContainsLiteral(pat Expr) Expr {
	return MapMany(ns.e, BinaryContains{}, []Expr{pat}, DefaultSupertypeOptions())
}

// StartsWith checks if a binary value starts with sub.
func (ns BinaryNameSpace) StartsWith(sub Expr) Expr {
	return MapMany(ns.e, BinaryStartsWith{}, []Expr{sub}, DefaultSupertypeOptions())
}

// EndsWith checks if a binary value ends with sub.
func (ns BinaryNameSpace) EndsWith(sub Expr) Expr {
	return MapMany(ns.e, BinaryEndsWith{}, []Expr{sub}, DefaultSupertypeOptions())
}

// SizeBytes returns the size in bytes of each value.
func (ns BinaryNameSpace) SizeBytes() Expr {
	return Map(ns.e, BinarySize{})
}

// Slice takes length bytes starting at offset. A negative offset counts
// from the end of the value. Out of range bounds are clamped when evaluated.
func (ns BinaryNameSpace) Slice(offset, length Expr) Expr {
	return MapMany(ns.e, BinarySlice{}, []Expr{offset, length}, nil)
}

// Head takes the first n bytes of each value.
func (ns BinaryNameSpace) Head(n Expr) Expr {
	return MapMany(ns.e, BinaryHead{}, []Expr{n}, nil)
}

// Tail takes the last n bytes of each value.
func (ns BinaryNameSpace) Tail(n Expr) Expr {
	return MapMany(ns.e, BinaryTail{}, []Expr{n}, nil)
}
