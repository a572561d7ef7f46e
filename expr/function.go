package expr

// FunctionExpr identifies the function applied by a FunctionExpression.
type FunctionExpr interface {
	// Namespace returns the function family, e.g. "bin".
	Namespace() string

	// Name returns the function name without parameters.
	Name() string

	// String returns the name together with its static parameters.
	String() string

	functionMarker()
}

// FunctionOptions controls how an executor treats a function node.
type FunctionOptions struct {
	// Elementwise reports that the function maps each row independently.
	Elementwise bool

	// ReturnsScalar reports that the function reduces its input to one value.
	ReturnsScalar bool

	// CastToSupertypes allows the executor to cast the arguments to the
	// receiver's super type. Nil means arguments are used as-is.
	CastToSupertypes *SupertypeOptions
}

// CastsArguments reports whether the executor may cast the arguments.
func (o FunctionOptions) CastsArguments() bool {
	return o.CastToSupertypes != nil
}

// SupertypeOptions refines argument casting.
type SupertypeOptions struct {
	// AllowPrimitiveToString lets numeric and boolean arguments be rendered
	// as text before being compared to binary data.
	AllowPrimitiveToString bool
}

// DefaultSupertypeOptions returns the casting options used by search-style
// functions.
func DefaultSupertypeOptions() *SupertypeOptions {
	return &SupertypeOptions{}
}

func optionsEqual(a, b FunctionOptions) bool {
	if a.Elementwise != b.Elementwise || a.ReturnsScalar != b.ReturnsScalar {
		return false
	}
	if (a.CastToSupertypes == nil) != (b.CastToSupertypes == nil) {
		return false
	}
	return a.CastToSupertypes == nil || *a.CastToSupertypes == *b.CastToSupertypes
}

// functionEqualer is implemented by functions whose parameters cannot be
// compared with ==.
type functionEqualer interface {
	equal(other FunctionExpr) bool
}

// FunctionEqual reports whether two function identities, including their
// static parameters, are the same.
func FunctionEqual(a, b FunctionExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(functionEqualer); ok {
		return eq.equal(b)
	}
	return a == b
}
