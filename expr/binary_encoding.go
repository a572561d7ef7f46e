//go:build !nobinaryencoding

package expr

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
)

// BinaryEncodingEnabled reports whether the encode, decode and from_buffer
// functions are compiled in.
const BinaryEncodingEnabled = true

// BinaryHexEncode renders each value as lowercase hexadecimal text.
type BinaryHexEncode struct{ binaryBase }

func (BinaryHexEncode) Name() string { return "hex_encode" }
func (BinaryHexEncode) String() string { return "hex_encode" }

// BinaryHexDecode parses hexadecimal text into bytes.
// When Strict is set, malformed input fails the whole evaluation.
// Otherwise malformed values become null.
type BinaryHexDecode struct {
	binaryBase
	Strict bool
}

func (BinaryHexDecode) Name() string { return "hex_decode" }
func (f BinaryHexDecode) String() string {
	return "hex_decode(strict=" + strconv.FormatBool(f.Strict) + ")"
}

// BinaryBase64Encode renders each value as padded standard base64 text.
type BinaryBase64Encode struct{ binaryBase }

func (BinaryBase64Encode) Name() string { return "base64_encode" }
func (BinaryBase64Encode) String() string { return "base64_encode" }

// BinaryBase64Decode parses base64 text into bytes, with the same Strict
// contract as BinaryHexDecode.
type BinaryBase64Decode struct {
	binaryBase
	Strict bool
}

func (BinaryBase64Decode) Name() string { return "base64_decode" }
func (f BinaryBase64Decode) String() string {
	return "base64_decode(strict=" + strconv.FormatBool(f.Strict) + ")"
}

// BinaryFromBuffer reinterprets the raw bytes of each value as TargetType
// using the given byte order.
type BinaryFromBuffer struct {
	binaryBase
	TargetType   arrow.DataType
	LittleEndian bool
}

func (BinaryFromBuffer) Name() string { return "from_buffer" }
func (f BinaryFromBuffer) String() string {
	target := "null"
	if f.TargetType != nil {
		target = f.TargetType.String()
	}
	return "from_buffer(" + target + ", little_endian=" + strconv.FormatBool(f.LittleEndian) + ")"
}

func (f BinaryFromBuffer) equal(other FunctionExpr) bool {
	o, ok := other.(BinaryFromBuffer)
	if !ok || f.LittleEndian != o.LittleEndian {
		return false
	}
	if f.TargetType == nil || o.TargetType == nil {
		return f.TargetType == nil && o.TargetType == nil
	}
	return arrow.TypeEqual(f.TargetType, o.TargetType)
}

// HexDecode decodes hexadecimal text.
func (ns BinaryNameSpace) HexDecode(strict bool) Expr {
	return Map(ns.e, BinaryHexDecode{Strict: strict})
}

// HexEncode encodes values as hexadecimal text.
func (ns BinaryNameSpace) HexEncode() Expr {
	return Map(ns.e, BinaryHexEncode{})
}

// Base64Decode decodes base64 text.
func (ns BinaryNameSpace) Base64Decode(strict bool) Expr {
	return Map(ns.e, BinaryBase64Decode{Strict: strict})
}

// Base64Encode encodes values as base64 text.
func (ns BinaryNameSpace) Base64Encode() Expr {
	return Map(ns.e, BinaryBase64Encode{})
}

// FromBuffer reinterprets each value as toType. No size or alignment
// checks happen here; the executor reports mismatched buffers.
func (ns BinaryNameSpace) FromBuffer(toType arrow.DataType, littleEndian bool) Expr {
	return Map(ns.e, BinaryFromBuffer{TargetType: toType, LittleEndian: littleEndian})
}
