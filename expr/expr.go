package expr

import (
	"strconv"
	"strings"
)

// Expr is the interface implemented by all expression nodes.
// Use type switches to access node-specific data.
type Expr interface {
	// Children returns the direct sub-expressions in evaluation order.
	// For functions the input comes first, followed by the arguments.
	Children() []Expr

	// String returns a readable rendering of the tree.
	String() string

	// Alias wraps the expression so its output is named name.
	Alias(name string) Expr

	// Bin returns the binary namespace for this expression.
	Bin() BinaryNameSpace

	// exprMarker is a marker method to prevent external implementation.
	exprMarker()
}

// ColumnExpression references an input column by name.
type ColumnExpression struct {
	name string
}

// Col returns a reference to the column called name.
func Col(name string) *ColumnExpression {
	return &ColumnExpression{name: name}
}

// Name returns the referenced column name.
func (c *ColumnExpression) Name() string { return c.name }

func (c *ColumnExpression) Children() []Expr { return nil }

func (c *ColumnExpression) String() string {
	return "col(" + strconv.Quote(c.name) + ")"
}

func (c *ColumnExpression) Alias(name string) Expr { return newAlias(c, name) }

func (c *ColumnExpression) Bin() BinaryNameSpace { return BinaryNameSpace{e: c} }

func (c *ColumnExpression) exprMarker() {}

// FunctionExpression applies a function to an input expression and an
// ordered list of argument expressions.
type FunctionExpression struct {
	input Expr
	args  []Expr
	fn    FunctionExpr
	opts  FunctionOptions
}

// Input returns the receiver the function was applied to.
func (f *FunctionExpression) Input() Expr { return f.input }

// Args returns a copy of the argument expressions, in call order.
func (f *FunctionExpression) Args() []Expr {
	if len(f.args) == 0 {
		return nil
	}
	args := make([]Expr, len(f.args))
	copy(args, f.args)
	return args
}

// NumArgs returns the number of argument expressions.
func (f *FunctionExpression) NumArgs() int { return len(f.args) }

// Arg returns the i-th argument expression.
func (f *FunctionExpression) Arg(i int) Expr { return f.args[i] }

// Function returns the function identity attached to the node.
func (f *FunctionExpression) Function() FunctionExpr { return f.fn }

// Options returns the execution options attached to the node.
func (f *FunctionExpression) Options() FunctionOptions { return f.opts }

func (f *FunctionExpression) Children() []Expr {
	children := make([]Expr, 0, len(f.args)+1)
	children = append(children, f.input)
	return append(children, f.args...)
}

func (f *FunctionExpression) String() string {
	var sb strings.Builder
	sb.WriteString(f.input.String())
	sb.WriteByte('.')
	sb.WriteString(f.fn.Namespace())
	sb.WriteByte('.')
	sb.WriteString(f.fn.String())
	if len(f.args) > 0 {
		sb.WriteString("([")
		for i, arg := range f.args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteString("])")
	}
	return sb.String()
}

func (f *FunctionExpression) Alias(name string) Expr { return newAlias(f, name) }

func (f *FunctionExpression) Bin() BinaryNameSpace { return BinaryNameSpace{e: f} }

func (f *FunctionExpression) exprMarker() {}

// AliasExpression names the output of its child expression.
type AliasExpression struct {
	expr Expr
	name string
}

func newAlias(e Expr, name string) *AliasExpression {
	return &AliasExpression{expr: e, name: name}
}

// Expr returns the aliased expression.
func (a *AliasExpression) Expr() Expr { return a.expr }

// Name returns the output name.
func (a *AliasExpression) Name() string { return a.name }

func (a *AliasExpression) Children() []Expr { return []Expr{a.expr} }

func (a *AliasExpression) String() string {
	return a.expr.String() + ".alias(" + strconv.Quote(a.name) + ")"
}

// Alias replaces the output name, keeping a single alias level.
func (a *AliasExpression) Alias(name string) Expr { return newAlias(a.expr, name) }

func (a *AliasExpression) Bin() BinaryNameSpace { return BinaryNameSpace{e: a} }

func (a *AliasExpression) exprMarker() {}

// Map wraps input in a single-input function node.
// Single-input nodes are elementwise and have no arguments to cast.
func Map(input Expr, fn FunctionExpr) Expr {
	return &FunctionExpression{
		input: input,
		fn:    fn,
		opts:  FunctionOptions{Elementwise: true},
	}
}

// MapMany wraps input and args in a multi-input function node.
// A nil castToSupertypes forbids the executor from casting the arguments.
// The args slice is copied.
func MapMany(input Expr, fn FunctionExpr, args []Expr, castToSupertypes *SupertypeOptions) Expr {
	var owned []Expr
	if len(args) > 0 {
		owned = make([]Expr, len(args))
		copy(owned, args)
	}
	var cast *SupertypeOptions
	if castToSupertypes != nil {
		c := *castToSupertypes
		cast = &c
	}
	return &FunctionExpression{
		input: input,
		args:  owned,
		fn:    fn,
		opts: FunctionOptions{
			Elementwise:      true,
			CastToSupertypes: cast,
		},
	}
}

// NewFunction builds a function node with explicit options. It is meant
// for decoders and plan rewrites that must reproduce a node exactly;
// builders should use Map and MapMany.
func NewFunction(input Expr, fn FunctionExpr, args []Expr, opts FunctionOptions) Expr {
	f := MapMany(input, fn, args, opts.CastToSupertypes).(*FunctionExpression)
	f.opts.Elementwise = opts.Elementwise
	f.opts.ReturnsScalar = opts.ReturnsScalar
	return f
}

// OutputName returns the name an evaluated expression is reported under:
// the outermost alias, else the left-most column, else "literal".
func OutputName(e Expr) string {
	for e != nil {
		switch ex := e.(type) {
		case *AliasExpression:
			return ex.name
		case *ColumnExpression:
			return ex.name
		case *FunctionExpression:
			e = ex.input
		default:
			return "literal"
		}
	}
	return "literal"
}

// Walk traverses the tree in pre-order. If fn returns false the children of
// the current node are skipped.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, child := range e.Children() {
		Walk(child, fn)
	}
}
