package plan

import (
	"fmt"

	"github.com/hugr-lab/binexpr/expr"
	"github.com/hugr-lab/binexpr/internal/msgpack"
)

// encodeNode applies the same depth limit as decodeNode, so a plan that
// marshals always unmarshals.
func encodeNode(e expr.Expr, depth int) (*wireNode, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformedPlan, maxDepth)
	}

	switch ex := e.(type) {
	case *expr.ColumnExpression:
		return &wireNode{Kind: kindColumn, Name: ex.Name()}, nil

	case *expr.LiteralExpression:
		name, err := typeName(ex.DataType())
		if err != nil {
			return nil, err
		}
		n := &wireNode{Kind: kindLiteral, Type: name}
		if !ex.IsNull() {
			raw, err := msgpack.Encode(ex.Value())
			if err != nil {
				return nil, err
			}
			n.Value = raw
		}
		return n, nil

	case *expr.AliasExpression:
		child, err := encodeNode(ex.Expr(), depth+1)
		if err != nil {
			return nil, err
		}
		return &wireNode{Kind: kindAlias, Name: ex.Name(), Input: child}, nil

	case *expr.FunctionExpression:
		return encodeFunction(ex, depth)

	case nil:
		return nil, fmt.Errorf("%w: nil expression", ErrMalformedPlan)

	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrMalformedPlan, e)
	}
}

func encodeFunction(f *expr.FunctionExpression, depth int) (*wireNode, error) {
	fn := f.Function()
	params, err := encodeParams(fn)
	if err != nil {
		return nil, err
	}

	input, err := encodeNode(f.Input(), depth+1)
	if err != nil {
		return nil, err
	}

	n := &wireNode{
		Kind:   kindFunction,
		Name:   fn.Namespace() + "." + fn.Name(),
		Input:  input,
		Params: params,
	}

	for i := 0; i < f.NumArgs(); i++ {
		arg, err := encodeNode(f.Arg(i), depth+1)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		n.Args = append(n.Args, *arg)
	}

	opts := f.Options()
	n.Options = &wireOptions{
		Elementwise:   opts.Elementwise,
		ReturnsScalar: opts.ReturnsScalar,
		Cast:          opts.CastToSupertypes != nil,
	}
	if opts.CastToSupertypes != nil {
		n.Options.AllowPrimitiveToString = opts.CastToSupertypes.AllowPrimitiveToString
	}
	return n, nil
}

// encodeParams returns the static parameters of fn, or nil when it has none.
func encodeParams(fn expr.FunctionExpr) (*wireParams, error) {
	switch fn.(type) {
	case expr.BinaryContains, expr.BinaryStartsWith, expr.BinaryEndsWith,
		expr.BinarySize, expr.BinarySlice, expr.BinaryHead, expr.BinaryTail:
		return nil, nil
	}
	if params, ok, err := encodeEncodingParams(fn); ok {
		return params, err
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrUnknownFunction, fn.Namespace(), fn.Name())
}

func decodeNode(n *wireNode, depth int) (expr.Expr, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformedPlan, maxDepth)
	}

	switch n.Kind {
	case kindColumn:
		return expr.Col(n.Name), nil

	case kindLiteral:
		return decodeLiteral(n.Type, n.Value)

	case kindAlias:
		if n.Input == nil {
			return nil, fmt.Errorf("%w: alias without input", ErrMalformedPlan)
		}
		child, err := decodeNode(n.Input, depth+1)
		if err != nil {
			return nil, err
		}
		return child.Alias(n.Name), nil

	case kindFunction:
		return decodeFunctionNode(n, depth)

	default:
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrMalformedPlan, n.Kind)
	}
}

func decodeFunctionNode(n *wireNode, depth int) (expr.Expr, error) {
	if n.Input == nil {
		return nil, fmt.Errorf("%w: function %s without input", ErrMalformedPlan, n.Name)
	}

	var params wireParams
	if n.Params != nil {
		params = *n.Params
	}
	fn, err := decodeFunction(n.Name, params)
	if err != nil {
		return nil, err
	}

	input, err := decodeNode(n.Input, depth+1)
	if err != nil {
		return nil, err
	}

	args := make([]expr.Expr, 0, len(n.Args))
	for i := range n.Args {
		arg, err := decodeNode(&n.Args[i], depth+1)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args = append(args, arg)
	}

	var opts expr.FunctionOptions
	if n.Options != nil {
		opts.Elementwise = n.Options.Elementwise
		opts.ReturnsScalar = n.Options.ReturnsScalar
		if n.Options.Cast {
			opts.CastToSupertypes = &expr.SupertypeOptions{
				AllowPrimitiveToString: n.Options.AllowPrimitiveToString,
			}
		}
	}
	return expr.NewFunction(input, fn, args, opts), nil
}

func decodeFunction(name string, params wireParams) (expr.FunctionExpr, error) {
	switch name {
	case "bin.contains":
		return expr.BinaryContains{}, nil
	case "bin.starts_with":
		return expr.BinaryStartsWith{}, nil
	case "bin.ends_with":
		return expr.BinaryEndsWith{}, nil
	case "bin.size_bytes":
		return expr.BinarySize{}, nil
	case "bin.slice":
		return expr.BinarySlice{}, nil
	case "bin.head":
		return expr.BinaryHead{}, nil
	case "bin.tail":
		return expr.BinaryTail{}, nil
	}
	if fn, ok, err := decodeEncodingFunction(name, params); ok {
		return fn, err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
}

func decodeLiteral(typ string, raw msgpack.RawMessage) (expr.Expr, error) {
	switch typ {
	case "null":
		return expr.Lit(nil), nil
	case "bool":
		return decodeAs[bool](raw)
	case "int8":
		return decodeAs[int8](raw)
	case "int16":
		return decodeAs[int16](raw)
	case "int32":
		return decodeAs[int32](raw)
	case "int64":
		return decodeAs[int64](raw)
	case "uint8":
		return decodeAs[uint8](raw)
	case "uint16":
		return decodeAs[uint16](raw)
	case "uint32":
		return decodeAs[uint32](raw)
	case "uint64":
		return decodeAs[uint64](raw)
	case "float32":
		return decodeAs[float32](raw)
	case "float64":
		return decodeAs[float64](raw)
	case "utf8":
		return decodeAs[string](raw)
	case "binary":
		return decodeAs[[]byte](raw)
	default:
		return nil, fmt.Errorf("%w: literal type %q", ErrUnknownType, typ)
	}
}

func decodeAs[T any](raw msgpack.RawMessage) (expr.Expr, error) {
	var v T
	if err := msgpack.Decode(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: literal: %v", ErrMalformedPlan, err)
	}
	return expr.Lit(v), nil
}
