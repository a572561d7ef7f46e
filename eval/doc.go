// Package eval is a reference executor for binary expression trees built
// with package expr. It evaluates trees over Arrow record batches.
//
// # Basic Usage
//
//	ev := eval.New(eval.Options{Allocator: memory.DefaultAllocator})
//	out, err := ev.Evaluate(ctx, batch, expr.Col("b").Bin().Head(expr.Lit(4)))
//	if err != nil {
//	    return err
//	}
//	defer out.Release()
//
// # Semantics
//
// Receivers of binary functions must be binary, large_binary or
// fixed_size_binary columns. Literals are broadcast to the batch length.
// Nulls propagate, except for a null length in Slice which means "up to the
// end of the value".
//
// Argument casting follows the options recorded on each node: search
// functions accept utf8 arguments, and numeric ones when
// AllowPrimitiveToString is set; Slice, Head and Tail accept only integers.
//
// Strict decoding fails the whole evaluation at the first malformed value
// with a *RowError wrapping ErrInvalidEncoding. Non-strict decoding turns
// malformed values into nulls. FromBuffer requires every value to be exactly
// as wide as the target type and reports ErrBufferSize otherwise.
package eval
