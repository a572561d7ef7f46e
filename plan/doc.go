// Package plan serializes expression trees so they can be shipped to a
// remote executor.
//
// A plan is an ordered list of expressions. It is encoded as a MessagePack
// envelope and compressed with ZStandard:
//
//	data, err := plan.Marshal(
//	    expr.Col("wkb").Bin().Head(expr.Lit(1)).Alias("byte_order"),
//	    expr.Col("wkb").Bin().SizeBytes(),
//	)
//	...
//	exprs, err := plan.Unmarshal(data)
//
// Decoding reproduces trees that are expr.Equal to the encoded ones,
// including literal widths, static function parameters and function
// options. Functions that are not compiled into the decoding binary (see
// the nobinaryencoding build tag) are rejected with ErrUnknownFunction.
package plan
