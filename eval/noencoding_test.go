//go:build nobinaryencoding

package eval

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/binexpr/expr"
)

func TestEncodingFunctionsUnavailable(t *testing.T) {
	out, handled, err := New(Options{Allocator: memory.DefaultAllocator}).evalEncoding(expr.BinarySize{}, nulls, 1)
	if handled || err != nil || out != nil {
		t.Errorf("expected nothing handled, got handled=%v err=%v", handled, err)
	}
}
