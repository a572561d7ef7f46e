package flight

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/binexpr/auth"
	"github.com/hugr-lab/binexpr/eval"
	"github.com/hugr-lab/binexpr/expr"
	"github.com/hugr-lab/binexpr/internal/recovery"
	"github.com/hugr-lab/binexpr/internal/requestid"
	"github.com/hugr-lab/binexpr/plan"
)

var (
	// ErrMissingPlan is returned when the first message has no CMD descriptor.
	ErrMissingPlan = errors.New("missing plan descriptor")

	// ErrEmptyPlan is returned for plans without expressions.
	ErrEmptyPlan = errors.New("plan has no expressions")
)

// DoExchange evaluates the plan sent in the first message over every input
// batch of the stream.
//
// The implementation uses a pipeline with 3 stages running concurrently:
// 1. Reader goroutine: Reads input batches from the client stream
// 2. Evaluator goroutine: Evaluates the plan on each batch
// 3. Writer goroutine: Sends output batches back to the client stream
func (s *Server) DoExchange(stream flight.FlightService_DoExchangeServer) error {
	ctx, reqID := requestid.FromIncoming(stream.Context())
	logger := s.logger.With("request_id", reqID)
	if identity := auth.IdentityFromContext(ctx); identity != "" {
		logger = logger.With("identity", identity)
	}

	// The first message carries the plan descriptor and the input schema.
	reader, err := flight.NewRecordReader(stream, ipc.WithAllocator(s.allocator))
	if errors.Is(err, io.EOF) {
		return status.Error(codes.InvalidArgument, "empty exchange: expected plan descriptor and input schema")
	}
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "failed to read input schema: %v", err)
	}

	exprs, err := s.decodePlan(reader.LatestFlightDescriptor())
	if err != nil {
		reader.Release()
		logger.Debug("Rejected plan", "error", err)
		return toStatus(err)
	}

	logger.Debug("DoExchange requested",
		"expressions", len(exprs),
		"input_schema", reader.Schema(),
	)

	outputSchema, err := s.outputSchema(ctx, reader.Schema(), exprs)
	if err != nil {
		reader.Release()
		logger.Debug("Plan does not apply to input schema", "error", err)
		return toStatus(err)
	}

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(outputSchema), ipc.WithAllocator(s.allocator))

	eg, egCtx := errgroup.WithContext(ctx)

	// Pipeline channels
	inputCh := make(chan arrow.RecordBatch, 1)
	outputCh := make(chan arrow.RecordBatch, 1)

	// The reader stays outside the group: it may block in Recv until the
	// handler returns and the stream is torn down.
	var readErr error
	go func() {
		defer close(inputCh)
		defer reader.Release()

		readErr = recovery.Do(logger, "read input", func() error {
			for reader.Next() {
				record := reader.RecordBatch()
				record.Retain() // Retain for passing to next stage

				select {
				case inputCh <- record:
				case <-egCtx.Done():
					record.Release()
					return egCtx.Err()
				}
			}
			if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		})
	}()

	eg.Go(func() error {
		defer close(outputCh)
		batch := 0
		for in := range inputCh {
			batch++
			logger.Debug("Evaluating batch",
				"batch", batch,
				"rows", in.NumRows(),
			)

			out, err := recovery.Value(logger, "evaluate", func() (arrow.RecordBatch, error) {
				return s.evaluator.EvaluateAll(egCtx, in, exprs...)
			})
			in.Release()
			if err != nil {
				return fmt.Errorf("batch %d: %w", batch, err)
			}

			select {
			case outputCh <- out:
			case <-egCtx.Done():
				out.Release()
				return egCtx.Err()
			}
		}
		// inputCh is closed, so readErr is settled
		return readErr
	})

	eg.Go(func() error {
		batch := 0
		for out := range outputCh {
			batch++
			err := writer.Write(out)
			out.Release()
			if err != nil {
				return fmt.Errorf("failed to write output batch %d: %w", batch, err)
			}
		}
		return nil
	})

	err = eg.Wait()

	// release whatever the stopped stages left behind
	for out := range outputCh {
		out.Release()
	}
	go func() {
		for in := range inputCh {
			in.Release()
		}
	}()

	if err != nil {
		// no end-of-stream marker: the client must see the status, not a
		// clean end of data
		logger.Error("DoExchange pipeline failed", "error", err)
		return toStatus(err)
	}
	if err := writer.Close(); err != nil {
		return status.Errorf(codes.Internal, "failed to finish output stream: %v", err)
	}

	logger.Debug("DoExchange completed")
	return nil
}

func (s *Server) decodePlan(desc *flight.FlightDescriptor) ([]expr.Expr, error) {
	if desc == nil || desc.Type != flight.DescriptorCMD || len(desc.Cmd) == 0 {
		return nil, ErrMissingPlan
	}
	exprs, err := s.codec.Unmarshal(desc.Cmd)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return nil, ErrEmptyPlan
	}
	return exprs, nil
}

// outputSchema evaluates the plan over an empty batch of the input schema.
// Type errors surface here, before any data is streamed.
func (s *Server) outputSchema(ctx context.Context, input *arrow.Schema, exprs []expr.Expr) (*arrow.Schema, error) {
	b := array.NewRecordBuilder(s.allocator, input)
	defer b.Release()
	empty := b.NewRecordBatch()
	defer empty.Release()

	out, err := recovery.Value(s.logger, "output schema", func() (arrow.RecordBatch, error) {
		return s.evaluator.EvaluateAll(ctx, empty, exprs...)
	})
	if err != nil {
		return nil, err
	}
	defer out.Release()
	return out.Schema(), nil
}

// toStatus maps evaluation and plan errors to gRPC status errors.
func toStatus(err error) error {
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case isInvalidArgument(err):
		code = codes.InvalidArgument
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}

func isInvalidArgument(err error) bool {
	for _, target := range []error{
		ErrMissingPlan,
		ErrEmptyPlan,
		plan.ErrMalformedPlan,
		plan.ErrUnsupportedVersion,
		plan.ErrUnknownFunction,
		plan.ErrUnknownType,
		eval.ErrColumnNotFound,
		eval.ErrTypeMismatch,
		eval.ErrLengthMismatch,
		eval.ErrInvalidEncoding,
		eval.ErrBufferSize,
		eval.ErrUnsupportedType,
		eval.ErrArity,
		eval.ErrUnsupportedExpression,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
