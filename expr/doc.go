// Package expr builds deferred, immutable expression trees for binary
// (byte-string) column operations.
//
// Nothing in this package touches data. Every builder returns a new node
// that wraps its receiver and argument expressions together with a function
// identity and the options an executor needs later. Evaluation lives in the
// eval package, SQL rendering in sqlgen and serialization in plan.
//
// # Basic Usage
//
//	e := expr.Col("payload").Bin().Slice(expr.Lit(2), expr.Lit(5))
//	fmt.Println(e) // col("payload").bin.slice([2, 5])
//
// # Node Types
//
// The tree is made of four node types, all implementing Expr:
//   - ColumnExpression: a reference to a named input column
//   - LiteralExpression: an embedded constant with its Arrow data type
//   - FunctionExpression: a function applied to an input and arguments
//   - AliasExpression: renames the output of its child
//
// # Binary Functions
//
// The Bin namespace maps each operation to exactly one BinaryFunction
// variant. The catalog is closed: BinaryFunction is a sealed interface,
// so executors can switch over it exhaustively.
//
// Search operations (ContainsLiteral, StartsWith, EndsWith) allow the
// executor to cast their argument to the receiver type. Slice, Head and
// Tail forbid casting so that offsets and counts stay integral.
//
// # Binary Encoding
//
// HexEncode, HexDecode, Base64Encode, Base64Decode and FromBuffer are
// compiled in by default. Building with the nobinaryencoding tag removes
// them, together with their catalog variants:
//
//	go build -tags nobinaryencoding ./...
//
// BinaryEncodingEnabled reports which flavor was compiled.
//
// # Concurrency
//
// Nodes are never modified after construction. Building trees is safe from
// any number of goroutines, and a sub-expression may be shared by several
// parents.
package expr
