package eval

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/arrow/scalar"

	"github.com/hugr-lab/binexpr/expr"
)

// Options configures an Evaluator.
type Options struct {
	// Allocator for result arrays.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for debug output.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger
}

// Evaluator evaluates expression trees over record batches.
// It holds no per-call state and is safe for concurrent use.
type Evaluator struct {
	mem    memory.Allocator
	logger *slog.Logger
}

// New creates an Evaluator.
func New(opts Options) *Evaluator {
	mem := opts.Allocator
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{mem: mem, logger: logger}
}

// Evaluate evaluates e against batch and returns an array with one value
// per batch row. The caller must release the result.
func (ev *Evaluator) Evaluate(ctx context.Context, batch arrow.RecordBatch, e expr.Expr) (arrow.Array, error) {
	out, err := ev.eval(ctx, batch, e)
	if err != nil {
		return nil, err
	}

	rows := int(batch.NumRows())
	if out.Len() == 1 && rows != 1 {
		// expression made only of literals
		defer out.Release()
		return ev.broadcast(out, rows)
	}
	return out, nil
}

// EvaluateAll evaluates every expression against batch and assembles the
// results in a record batch. Columns are named after expr.OutputName.
// The caller must release the result.
func (ev *Evaluator) EvaluateAll(ctx context.Context, batch arrow.RecordBatch, exprs ...expr.Expr) (arrow.RecordBatch, error) {
	fields := make([]arrow.Field, 0, len(exprs))
	cols := make([]arrow.Array, 0, len(exprs))
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	for i, e := range exprs {
		col, err := ev.Evaluate(ctx, batch, e)
		if err != nil {
			return nil, fmt.Errorf("expression %d (%s): %w", i, expr.OutputName(e), err)
		}
		cols = append(cols, col)
		fields = append(fields, arrow.Field{Name: expr.OutputName(e), Type: col.DataType(), Nullable: true})
	}

	ev.logger.Debug("Evaluated batch",
		"rows", batch.NumRows(),
		"expressions", len(exprs),
	)

	return array.NewRecordBatch(arrow.NewSchema(fields, nil), cols, batch.NumRows()), nil
}

func (ev *Evaluator) eval(ctx context.Context, batch arrow.RecordBatch, e expr.Expr) (arrow.Array, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch ex := e.(type) {
	case *expr.ColumnExpression:
		idx := batch.Schema().FieldIndices(ex.Name())
		if len(idx) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, ex.Name())
		}
		col := batch.Column(idx[0])
		col.Retain()
		return col, nil

	case *expr.LiteralExpression:
		return ev.literal(ex)

	case *expr.AliasExpression:
		return ev.eval(ctx, batch, ex.Expr())

	case *expr.FunctionExpression:
		if _, ok := ex.Function().(expr.BinaryFunction); !ok {
			return nil, fmt.Errorf("%w: function %s", ErrUnsupportedExpression, ex.Function())
		}
		return ev.evalBinary(ctx, batch, ex)

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedExpression, e)
	}
}

// literal materializes a literal as a length-1 array.
func (ev *Evaluator) literal(lit *expr.LiteralExpression) (arrow.Array, error) {
	var sc scalar.Scalar
	if lit.IsNull() {
		sc = scalar.MakeNullScalar(lit.DataType())
	} else {
		sc = scalar.MakeScalar(lit.Value())
	}
	return scalar.MakeArrayFromScalar(sc, 1, ev.mem)
}

func (ev *Evaluator) broadcast(arr arrow.Array, n int) (arrow.Array, error) {
	sc, err := scalar.GetScalar(arr, 0)
	if err != nil {
		return nil, err
	}
	if r, ok := sc.(scalar.Releasable); ok {
		defer r.Release()
	}
	return scalar.MakeArrayFromScalar(sc, n, ev.mem)
}

func (ev *Evaluator) evalBinary(ctx context.Context, batch arrow.RecordBatch, f *expr.FunctionExpression) (arrow.Array, error) {
	input, err := ev.eval(ctx, batch, f.Input())
	if err != nil {
		return nil, err
	}
	defer input.Release()

	args := make([]arrow.Array, 0, f.NumArgs())
	defer func() {
		for _, a := range args {
			a.Release()
		}
	}()
	for i := 0; i < f.NumArgs(); i++ {
		arg, err := ev.eval(ctx, batch, f.Arg(i))
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	name := f.Function().Name()
	if want := arity(f.Function()); f.NumArgs() != want {
		return nil, fmt.Errorf("%s: %w: expected %d, got %d", name, ErrArity, want, f.NumArgs())
	}
	values, err := binaryValues(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	n, err := resultLen(append([]arrow.Array{input}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	ev.logger.Debug("Evaluating binary function",
		"function", f.Function().String(),
		"rows", n,
	)

	var out arrow.Array
	switch f.Function().(type) {
	case expr.BinaryContains:
		out, err = ev.search(values, args[0], f.Options(), n, bytes.Contains)
	case expr.BinaryStartsWith:
		out, err = ev.search(values, args[0], f.Options(), n, bytes.HasPrefix)
	case expr.BinaryEndsWith:
		out, err = ev.search(values, args[0], f.Options(), n, bytes.HasSuffix)
	case expr.BinarySize:
		out = ev.size(values, n)
	case expr.BinarySlice:
		out, err = ev.slice(values, args[0], args[1], n)
	case expr.BinaryHead:
		out, err = ev.takeBytes(values, args[0], n, headBytes)
	case expr.BinaryTail:
		out, err = ev.takeBytes(values, args[0], n, tailBytes)
	default:
		var handled bool
		out, handled, err = ev.evalEncoding(f.Function(), values, n)
		if !handled {
			err = fmt.Errorf("%w: function %s", ErrUnsupportedExpression, f.Function())
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// arity returns the number of arguments fn takes.
func arity(fn expr.FunctionExpr) int {
	switch fn.(type) {
	case expr.BinaryContains, expr.BinaryStartsWith, expr.BinaryEndsWith,
		expr.BinaryHead, expr.BinaryTail:
		return 1
	case expr.BinarySlice:
		return 2
	}
	return 0
}
