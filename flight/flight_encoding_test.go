//go:build !nobinaryencoding

package flight

import (
	"bytes"
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/binexpr/expr"
)

func TestExchangeDecode(t *testing.T) {
	client := newClient(t, startServer(t, nil), nil)

	batch := blobBatch(memory.DefaultAllocator, []byte("deadbeef"), []byte("zz"))
	defer batch.Release()

	results, err := client.Evaluate(context.Background(), []expr.Expr{expr.Col("b").Bin().HexDecode(false)}, batch)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	defer releaseAll(results)

	out := results[0].Column(0).(*array.Binary)
	if !bytes.Equal(out.Value(0), []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("unexpected decoded value %x", out.Value(0))
	}
	if out.IsValid(1) {
		t.Error("expected malformed value to decode to null")
	}
}

func TestExchangeStrictDecodeError(t *testing.T) {
	client := newClient(t, startServer(t, nil), nil)

	batch := blobBatch(memory.DefaultAllocator, []byte("00"), []byte("not hex"))
	defer batch.Release()

	results, err := client.Evaluate(context.Background(), []expr.Expr{expr.Col("b").Bin().HexDecode(true)}, batch)
	if err == nil {
		releaseAll(results)
		t.Fatal("expected error, got nil")
	}
	if code := status.Code(err); code != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %s (%v)", code, err)
	}
}

func TestExchangeFromBuffer(t *testing.T) {
	client := newClient(t, startServer(t, nil), nil)

	batch := blobBatch(memory.DefaultAllocator, []byte{0x01, 0x00, 0x00, 0x00})
	defer batch.Release()

	results, err := client.Evaluate(context.Background(),
		[]expr.Expr{expr.Col("b").Bin().FromBuffer(arrow.PrimitiveTypes.Int32, true)}, batch)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	defer releaseAll(results)

	if got := results[0].Column(0).(*array.Int32).Value(0); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}
