package expr

import (
	"sync"
	"testing"
)

// TestBinaryNameSpaceVariants checks that every builder tags the node with
// the right catalog variant, arguments and cast options.
func TestBinaryNameSpaceVariants(t *testing.T) {
	recv := Col("data")
	pat := Lit([]byte("ab"))
	n := Lit(3)

	tests := []struct {
		name     string
		build    func() Expr
		wantFn   BinaryFunction
		wantName string
		wantArgs []Expr
		wantCast bool
	}{
		{"contains_literal", func() Expr { return recv.Bin().ContainsLiteral(pat) }, BinaryContains{}, "contains", []Expr{pat}, true},
		{"starts_with", func() Expr { return recv.Bin().StartsWith(pat) }, BinaryStartsWith{}, "starts_with", []Expr{pat}, true},
		{"ends_with", func() Expr { return recv.Bin().EndsWith(pat) }, BinaryEndsWith{}, "ends_with", []Expr{pat}, true},
		{"size_bytes", func() Expr { return recv.Bin().SizeBytes() }, BinarySize{}, "size_bytes", nil, false},
		{"slice", func() Expr { return recv.Bin().Slice(Lit(1), n) }, BinarySlice{}, "slice", []Expr{Lit(1), n}, false},
		{"head", func() Expr { return recv.Bin().Head(n) }, BinaryHead{}, "head", []Expr{n}, false},
		{"tail", func() Expr { return recv.Bin().Tail(n) }, BinaryTail{}, "tail", []Expr{n}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, ok := tt.build().(*FunctionExpression)
			if !ok {
				t.Fatalf("expected *FunctionExpression, got %T", tt.build())
			}
			if !FunctionEqual(fe.Function(), tt.wantFn) {
				t.Errorf("expected function %s, got %s", tt.wantFn, fe.Function())
			}
			if fe.Function().Name() != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, fe.Function().Name())
			}
			if fe.Function().Namespace() != BinaryNamespaceName {
				t.Errorf("expected namespace %q, got %q", BinaryNamespaceName, fe.Function().Namespace())
			}
			if fe.Input() != recv {
				t.Errorf("expected receiver to be the input")
			}
			if fe.NumArgs() != len(tt.wantArgs) {
				t.Fatalf("expected %d args, got %d", len(tt.wantArgs), fe.NumArgs())
			}
			for i, want := range tt.wantArgs {
				if !Equal(fe.Arg(i), want) {
					t.Errorf("arg %d: expected %s, got %s", i, want, fe.Arg(i))
				}
			}
			if got := fe.Options().CastsArguments(); got != tt.wantCast {
				t.Errorf("expected CastsArguments=%v, got %v", tt.wantCast, got)
			}
			if !fe.Options().Elementwise {
				t.Error("expected elementwise options")
			}
		})
	}
}

// TestSliceScenario builds col.slice(lit(2), lit(5)) and inspects the node.
func TestSliceScenario(t *testing.T) {
	recv := Col("blob")
	e := recv.Bin().Slice(Lit(2), Lit(5))

	fe := e.(*FunctionExpression)
	if _, ok := fe.Function().(BinarySlice); !ok {
		t.Fatalf("expected BinarySlice, got %T", fe.Function())
	}

	children := e.Children()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	if children[0] != recv {
		t.Error("expected receiver as first child")
	}
	for i, want := range []int64{2, 5} {
		lit, ok := children[i+1].(*LiteralExpression)
		if !ok {
			t.Fatalf("child %d: expected literal, got %T", i+1, children[i+1])
		}
		got, ok := lit.Int64()
		if !ok || got != want {
			t.Errorf("child %d: expected %d, got %v", i+1, want, lit.Value())
		}
	}
	if fe.Options().CastToSupertypes != nil {
		t.Error("expected slice to disable argument casting")
	}

	if got, want := e.String(), `col("blob").bin.slice([2, 5])`; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// TestSliceArgumentOrder makes sure offset and length are never swapped.
func TestSliceArgumentOrder(t *testing.T) {
	offset := Col("off")
	length := Col("len")
	fe := Col("b").Bin().Slice(offset, length).(*FunctionExpression)

	args := fe.Args()
	if args[0] != offset || args[1] != length {
		t.Errorf("expected [offset, length], got %v", args)
	}
}

// TestBuildIsReferentiallyTransparent builds the same expression twice.
func TestBuildIsReferentiallyTransparent(t *testing.T) {
	a := Col("b").Bin().StartsWith(Lit([]byte{0xca, 0xfe}))
	b := Col("b").Bin().StartsWith(Lit([]byte{0xca, 0xfe}))

	if a == b {
		t.Fatal("expected two independent nodes")
	}
	if !Equal(a, b) {
		t.Errorf("expected %s to equal %s", a, b)
	}
	if Equal(a, Col("b").Bin().EndsWith(Lit([]byte{0xca, 0xfe}))) {
		t.Error("starts_with must not equal ends_with")
	}
	if Equal(a, Col("b").Bin().StartsWith(Lit([]byte{0xca}))) {
		t.Error("different patterns must not be equal")
	}
}

// TestArgsAreOwned checks that callers cannot mutate a node through the
// slices they passed in or received.
func TestArgsAreOwned(t *testing.T) {
	args := []Expr{Lit(1), Lit(2)}
	e := MapMany(Col("b"), BinarySlice{}, args, nil).(*FunctionExpression)

	args[0] = Lit(99)
	got := e.Args()
	got[1] = Lit(42)

	if !Equal(e.Arg(0), Lit(1)) || !Equal(e.Arg(1), Lit(2)) {
		t.Errorf("node arguments were mutated: %s", e)
	}

	opts := DefaultSupertypeOptions()
	m := MapMany(Col("b"), BinaryContains{}, []Expr{Lit("x")}, opts).(*FunctionExpression)
	opts.AllowPrimitiveToString = true
	if m.Options().CastToSupertypes.AllowPrimitiveToString {
		t.Error("cast options were aliased")
	}
}

// TestChaining composes several namespace calls.
func TestChaining(t *testing.T) {
	e := Col("b").Bin().Tail(Lit(4)).Bin().SizeBytes().Alias("n")

	if got := OutputName(e); got != "n" {
		t.Errorf("expected output name n, got %s", got)
	}
	if got := OutputName(Col("b").Bin().Head(Lit(1))); got != "b" {
		t.Errorf("expected output name b, got %s", got)
	}
	if got := OutputName(Lit([]byte("x")).Bin().SizeBytes()); got != "literal" {
		t.Errorf("expected output name literal, got %s", got)
	}

	want := `col("b").bin.tail([4]).bin.size_bytes.alias("n")`
	if e.String() != want {
		t.Errorf("expected %s, got %s", want, e.String())
	}
}

// TestConcurrentBuild builds trees that share a sub-expression from many
// goroutines.
func TestConcurrentBuild(t *testing.T) {
	shared := Col("b").Bin().Head(Lit(8))
	want := shared.Bin().ContainsLiteral(Lit("needle"))

	var wg sync.WaitGroup
	results := make([]Expr, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = shared.Bin().ContainsLiteral(Lit("needle"))
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !Equal(got, want) {
			t.Errorf("result %d: expected %s, got %s", i, want, got)
		}
	}
}
