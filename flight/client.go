package flight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/hugr-lab/binexpr/expr"
	"github.com/hugr-lab/binexpr/internal/requestid"
	"github.com/hugr-lab/binexpr/plan"
)

// ErrNoInput is returned by Client.Evaluate when no batch is given, since
// the input schema cannot be inferred.
var ErrNoInput = errors.New("no input batches")

// ClientOptions configures a Client.
type ClientOptions struct {
	// Allocator for received batches.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger for debug output.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger
}

// Client sends plans and batches to an evaluation server.
// It is safe for concurrent use.
type Client struct {
	client flight.FlightServiceClient
	codec  *plan.Codec
	mem    memory.Allocator
	logger *slog.Logger
}

// NewClient creates a client on top of an established gRPC connection.
// Caller must call Close() when done; the connection stays open.
func NewClient(conn grpc.ClientConnInterface, opts ClientOptions) (*Client, error) {
	mem := opts.Allocator
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	codec, err := plan.NewCodec()
	if err != nil {
		return nil, err
	}
	return &Client{
		client: flight.NewFlightServiceClient(conn),
		codec:  codec,
		mem:    mem,
		logger: logger,
	}, nil
}

// Close releases the plan codec.
func (c *Client) Close() error {
	return c.codec.Close()
}

// Evaluate evaluates exprs remotely over batches, which must share a
// schema. It returns one output batch per input batch; the caller must
// release them.
func (c *Client) Evaluate(ctx context.Context, exprs []expr.Expr, batches ...arrow.RecordBatch) ([]arrow.RecordBatch, error) {
	if len(batches) == 0 {
		return nil, ErrNoInput
	}
	rdr, err := array.NewRecordReader(batches[0].Schema(), batches)
	if err != nil {
		return nil, err
	}
	defer rdr.Release()
	return c.EvaluateReader(ctx, exprs, rdr)
}

// EvaluateReader streams every batch of rdr to the server while collecting
// the results. The caller must release the returned batches.
func (c *Client) EvaluateReader(ctx context.Context, exprs []expr.Expr, rdr array.RecordReader) ([]arrow.RecordBatch, error) {
	cmd, err := c.codec.Marshal(exprs...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	ctx, reqID := requestid.AppendToOutgoing(ctx)
	logger := c.logger.With("request_id", reqID)
	logger.Debug("Starting remote evaluation",
		"expressions", len(exprs),
		"plan_bytes", len(cmd),
	)

	eg, egCtx := errgroup.WithContext(ctx)
	stream, err := c.client.DoExchange(egCtx)
	if err != nil {
		return nil, err
	}

	eg.Go(func() error {
		writer := flight.NewRecordWriter(stream, ipc.WithSchema(rdr.Schema()), ipc.WithAllocator(c.mem))
		writer.SetFlightDescriptor(&flight.FlightDescriptor{Type: flight.DescriptorCMD, Cmd: cmd})

		for rdr.Next() {
			if err := writer.Write(rdr.RecordBatch()); err != nil {
				return sendError(err)
			}
		}
		if err := rdr.Err(); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return sendError(err)
		}
		return stream.CloseSend()
	})

	var results []arrow.RecordBatch
	eg.Go(func() error {
		reader, err := flight.NewRecordReader(stream, ipc.WithAllocator(c.mem))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		defer reader.Release()

		for reader.Next() {
			rec := reader.RecordBatch()
			rec.Retain()
			results = append(results, rec)
		}
		if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		for _, r := range results {
			r.Release()
		}
		return nil, err
	}

	logger.Debug("Remote evaluation completed", "batches", len(results))
	return results, nil
}

// sendError hides the io.EOF returned by Send once the server has ended the
// stream; the receiving side reports the actual status.
func sendError(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
