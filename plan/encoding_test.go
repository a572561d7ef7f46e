//go:build !nobinaryencoding

package plan

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/binexpr/expr"
)

func TestRoundTripEncodingFunctions(t *testing.T) {
	b := expr.Col("raw")
	exprs := []expr.Expr{
		b.Bin().HexEncode(),
		b.Bin().HexDecode(true),
		b.Bin().HexDecode(false),
		b.Bin().Base64Encode(),
		b.Bin().Base64Decode(true),
		b.Bin().Slice(expr.Lit(1), expr.Lit(4)).Bin().FromBuffer(arrow.PrimitiveTypes.Uint32, true),
		b.Bin().FromBuffer(arrow.PrimitiveTypes.Float64, false),
	}

	data, err := Marshal(exprs...)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	for i := range exprs {
		if !expr.Equal(got[i], exprs[i]) {
			t.Errorf("expression %d: expected %s, got %s", i, exprs[i], got[i])
		}
	}
}

func TestMarshalRejectsUnknownTargetType(t *testing.T) {
	e := expr.Col("raw").Bin().FromBuffer(arrow.FixedWidthTypes.Timestamp_us, true)
	if _, err := Marshal(e); !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}
