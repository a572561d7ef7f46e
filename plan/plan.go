package plan

import (
	"errors"
	"fmt"

	"github.com/hugr-lab/binexpr/expr"
	"github.com/hugr-lab/binexpr/internal/msgpack"
	"github.com/hugr-lab/binexpr/internal/serialize"
)

// Version is the plan format version written by this package.
const Version = 1

// MaxDecodedSize bounds the decompressed size of a plan.
const MaxDecodedSize = 64 << 20

// maxDepth bounds tree nesting accepted by Marshal and Unmarshal.
const maxDepth = 1024

var (
	// ErrUnsupportedVersion is returned for plans written by a newer format.
	ErrUnsupportedVersion = errors.New("plan: unsupported version")

	// ErrUnknownFunction is returned for function names this build cannot
	// decode or encode.
	ErrUnknownFunction = errors.New("plan: unknown function")

	// ErrUnknownType is returned for data type names outside the supported set.
	ErrUnknownType = errors.New("plan: unknown data type")

	// ErrMalformedPlan is returned when the envelope decodes but the tree
	// is not well formed.
	ErrMalformedPlan = errors.New("plan: malformed plan")
)

const (
	kindColumn   = "col"
	kindLiteral  = "lit"
	kindFunction = "fn"
	kindAlias    = "alias"
)

type wirePlan struct {
	Version int        `msgpack:"version"`
	Exprs   []wireNode `msgpack:"exprs"`
}

type wireNode struct {
	Kind    string             `msgpack:"kind"`
	Name    string             `msgpack:"name,omitempty"`
	Type    string             `msgpack:"type,omitempty"`
	Value   msgpack.RawMessage `msgpack:"value,omitempty"`
	Input   *wireNode          `msgpack:"input,omitempty"`
	Args    []wireNode         `msgpack:"args,omitempty"`
	Params  *wireParams        `msgpack:"params,omitempty"`
	Options *wireOptions       `msgpack:"options,omitempty"`
}

type wireParams struct {
	Strict       bool   `msgpack:"strict,omitempty"`
	TargetType   string `msgpack:"target_type,omitempty"`
	LittleEndian bool   `msgpack:"little_endian,omitempty"`
}

type wireOptions struct {
	Elementwise            bool `msgpack:"elementwise,omitempty"`
	ReturnsScalar          bool `msgpack:"returns_scalar,omitempty"`
	Cast                   bool `msgpack:"cast,omitempty"`
	AllowPrimitiveToString bool `msgpack:"allow_primitive_to_string,omitempty"`
}

// Codec encodes and decodes plans, reusing its zstd state across calls.
// A Codec is safe for concurrent use.
type Codec struct {
	compressor   *serialize.Compressor
	decompressor *serialize.Decompressor
}

// NewCodec creates a reusable plan codec.
// Caller must call Close() when done.
func NewCodec() (*Codec, error) {
	c, err := serialize.NewCompressor()
	if err != nil {
		return nil, err
	}
	d, err := serialize.NewDecompressor(MaxDecodedSize)
	if err != nil {
		c.Close()
		return nil, err
	}
	return &Codec{compressor: c, decompressor: d}, nil
}

// Close releases the codec resources.
func (c *Codec) Close() error {
	c.decompressor.Close()
	return c.compressor.Close()
}

// Marshal encodes exprs as a compressed plan.
func (c *Codec) Marshal(exprs ...expr.Expr) ([]byte, error) {
	wp := wirePlan{Version: Version, Exprs: make([]wireNode, 0, len(exprs))}
	for i, e := range exprs {
		n, err := encodeNode(e, 0)
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
		wp.Exprs = append(wp.Exprs, *n)
	}
	data, err := msgpack.Encode(&wp)
	if err != nil {
		return nil, err
	}
	return c.compressor.Compress(data), nil
}

// Unmarshal decodes a compressed plan.
func (c *Codec) Unmarshal(data []byte) ([]expr.Expr, error) {
	raw, err := c.decompressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	var wp wirePlan
	if err := msgpack.Decode(raw, &wp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPlan, err)
	}
	if wp.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, wp.Version)
	}
	exprs := make([]expr.Expr, 0, len(wp.Exprs))
	for i := range wp.Exprs {
		e, err := decodeNode(&wp.Exprs[i], 0)
		if err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// Marshal encodes exprs with a one-shot codec.
func Marshal(exprs ...expr.Expr) ([]byte, error) {
	c, err := NewCodec()
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Marshal(exprs...)
}

// Unmarshal decodes a plan with a one-shot codec.
func Unmarshal(data []byte) ([]expr.Expr, error) {
	c, err := NewCodec()
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Unmarshal(data)
}
