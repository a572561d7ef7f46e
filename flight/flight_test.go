package flight

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/binexpr/auth"
	"github.com/hugr-lab/binexpr/expr"
)

// startServer serves the evaluation service on a loopback port and returns
// a connection to it.
func startServer(t *testing.T, authenticator auth.Authenticator, dialOpts ...grpc.DialOption) *grpc.ClientConn {
	t.Helper()

	srv, err := NewServer(Options{})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	var serverOpts []grpc.ServerOption
	if authenticator != nil {
		serverOpts = append(serverOpts,
			grpc.UnaryInterceptor(auth.UnaryServerInterceptor(authenticator)),
			grpc.StreamInterceptor(auth.StreamServerInterceptor(authenticator)),
		)
	}
	grpcServer := grpc.NewServer(serverOpts...)
	RegisterFlightServer(grpcServer, srv)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	dialOpts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, dialOpts...)
	conn, err := grpc.NewClient(lis.Addr().String(), dialOpts...)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		grpcServer.Stop()
		srv.Close()
	})
	return conn
}

func newClient(t *testing.T, conn *grpc.ClientConn, mem memory.Allocator) *Client {
	t.Helper()
	c, err := NewClient(conn, ClientOptions{Allocator: mem})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

var blobSchema = arrow.NewSchema([]arrow.Field{{Name: "b", Type: arrow.BinaryTypes.Binary, Nullable: true}}, nil)

// blobBatch builds a single column batch; nil values are nulls.
func blobBatch(mem memory.Allocator, values ...[]byte) arrow.RecordBatch {
	b := array.NewRecordBuilder(mem, blobSchema)
	defer b.Release()
	col := b.Field(0).(*array.BinaryBuilder)
	for _, v := range values {
		if v == nil {
			col.AppendNull()
			continue
		}
		col.Append(v)
	}
	return b.NewRecordBatch()
}

func releaseAll(batches []arrow.RecordBatch) {
	for _, b := range batches {
		b.Release()
	}
}

func TestExchangeRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	conn := startServer(t, nil)
	client := newClient(t, conn, mem)

	first := blobBatch(mem, []byte{0xde, 0xad, 0xbe, 0xef}, nil)
	defer first.Release()
	second := blobBatch(mem, []byte{0x01}, []byte{})
	defer second.Release()

	b := expr.Col("b").Bin()
	exprs := []expr.Expr{
		b.SizeBytes().Alias("size"),
		b.StartsWith(expr.Lit([]byte{0xde})).Alias("de"),
		b.Head(expr.Lit(2)),
	}

	results, err := client.Evaluate(context.Background(), exprs, first, second)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	defer releaseAll(results)

	if len(results) != 2 {
		t.Fatalf("expected 2 output batches, got %d", len(results))
	}

	schema := results[0].Schema()
	wantNames := []string{"size", "de", "b"}
	for i, name := range wantNames {
		if got := schema.Field(i).Name; got != name {
			t.Errorf("field %d: expected name %q, got %q", i, name, got)
		}
	}
	if !arrow.TypeEqual(schema.Field(0).Type, arrow.PrimitiveTypes.Uint32) {
		t.Errorf("expected uint32 size column, got %s", schema.Field(0).Type)
	}

	sizes := results[0].Column(0).(*array.Uint32)
	if sizes.Value(0) != 4 || sizes.IsValid(1) {
		t.Errorf("unexpected sizes %v", sizes)
	}
	starts := results[0].Column(1).(*array.Boolean)
	if !starts.Value(0) || starts.IsValid(1) {
		t.Errorf("unexpected starts_with %v", starts)
	}
	heads := results[0].Column(2).(*array.Binary)
	if !bytes.Equal(heads.Value(0), []byte{0xde, 0xad}) {
		t.Errorf("unexpected head %x", heads.Value(0))
	}

	sizes = results[1].Column(0).(*array.Uint32)
	if sizes.Value(0) != 1 || sizes.Value(1) != 0 {
		t.Errorf("unexpected sizes in second batch %v", sizes)
	}
	starts = results[1].Column(1).(*array.Boolean)
	if starts.Value(0) || starts.Value(1) {
		t.Errorf("unexpected starts_with in second batch %v", starts)
	}
}

func TestExchangeZeroBatches(t *testing.T) {
	conn := startServer(t, nil)
	client := newClient(t, conn, nil)

	rdr, err := array.NewRecordReader(blobSchema, nil)
	if err != nil {
		t.Fatalf("NewRecordReader failed: %v", err)
	}
	defer rdr.Release()

	results, err := client.EvaluateReader(context.Background(), []expr.Expr{expr.Col("b").Bin().SizeBytes()}, rdr)
	if err != nil {
		t.Fatalf("EvaluateReader failed: %v", err)
	}
	if len(results) != 0 {
		releaseAll(results)
		t.Fatalf("expected no output batches, got %d", len(results))
	}
}

func TestEvaluateWithoutBatches(t *testing.T) {
	conn := startServer(t, nil)
	client := newClient(t, conn, nil)

	_, err := client.Evaluate(context.Background(), []expr.Expr{expr.Col("b")})
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestExchangeInvalidPlan(t *testing.T) {
	conn := startServer(t, nil)
	client := newClient(t, conn, nil)

	batch := blobBatch(memory.DefaultAllocator, []byte{1})
	defer batch.Release()

	tests := []struct {
		name string
		expr expr.Expr
	}{
		{"missing column", expr.Col("missing").Bin().SizeBytes()},
		{"receiver not binary", expr.Lit(int64(1)).Bin().SizeBytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := client.Evaluate(context.Background(), []expr.Expr{tt.expr}, batch)
			if err == nil {
				releaseAll(results)
				t.Fatal("expected error, got nil")
			}
			if code := status.Code(err); code != codes.InvalidArgument {
				t.Errorf("expected InvalidArgument, got %s (%v)", code, err)
			}
		})
	}
}

// TestExchangeMissingPlan sends batches without a CMD descriptor.
func TestExchangeMissingPlan(t *testing.T) {
	conn := startServer(t, nil)

	stream, err := flight.NewFlightServiceClient(conn).DoExchange(context.Background())
	if err != nil {
		t.Fatalf("DoExchange failed: %v", err)
	}

	batch := blobBatch(memory.DefaultAllocator, []byte{1})
	defer batch.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(blobSchema))
	_ = writer.Write(batch)
	_ = writer.Close()
	_ = stream.CloseSend()

	reader, err := flight.NewRecordReader(stream)
	if err == nil {
		for reader.Next() {
		}
		err = reader.Err()
		reader.Release()
	}
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %s (%v)", code, err)
	}
}

func TestExchangeAuth(t *testing.T) {
	tokens := auth.StaticTokens(map[string]string{"s3cret": "alice"})
	exprs := []expr.Expr{expr.Col("b").Bin().SizeBytes()}

	batch := blobBatch(memory.DefaultAllocator, []byte{1, 2, 3})
	defer batch.Release()

	t.Run("without token", func(t *testing.T) {
		client := newClient(t, startServer(t, tokens), nil)
		results, err := client.Evaluate(context.Background(), exprs, batch)
		if err == nil {
			releaseAll(results)
			t.Fatal("expected error, got nil")
		}
		if code := status.Code(err); code != codes.Unauthenticated {
			t.Errorf("expected Unauthenticated, got %s (%v)", code, err)
		}
	})

	t.Run("with token", func(t *testing.T) {
		client := newClient(t, startServer(t, tokens, auth.PerRPCToken("s3cret", true)), nil)
		results, err := client.Evaluate(context.Background(), exprs, batch)
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		defer releaseAll(results)
		if got := results[0].Column(0).(*array.Uint32).Value(0); got != 3 {
			t.Errorf("expected size 3, got %d", got)
		}
	})
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"missing plan", ErrMissingPlan, codes.InvalidArgument},
		{"wrapped plan error", errors.Join(errors.New("batch 1"), ErrEmptyPlan), codes.InvalidArgument},
		{"canceled", context.Canceled, codes.Canceled},
		{"deadline", context.DeadlineExceeded, codes.DeadlineExceeded},
		{"existing status", status.Error(codes.Unauthenticated, "no"), codes.Unauthenticated},
		{"other", errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := status.Code(toStatus(tt.err)); code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, code)
			}
		})
	}
}
