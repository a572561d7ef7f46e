//go:build !nobinaryencoding

package plan

import (
	"github.com/hugr-lab/binexpr/expr"
)

func encodeEncodingParams(fn expr.FunctionExpr) (*wireParams, bool, error) {
	switch f := fn.(type) {
	case expr.BinaryHexEncode, expr.BinaryBase64Encode:
		return nil, true, nil
	case expr.BinaryHexDecode:
		return &wireParams{Strict: f.Strict}, true, nil
	case expr.BinaryBase64Decode:
		return &wireParams{Strict: f.Strict}, true, nil
	case expr.BinaryFromBuffer:
		name, err := typeName(f.TargetType)
		if err != nil {
			return nil, true, err
		}
		return &wireParams{TargetType: name, LittleEndian: f.LittleEndian}, true, nil
	}
	return nil, false, nil
}

func decodeEncodingFunction(name string, params wireParams) (expr.FunctionExpr, bool, error) {
	switch name {
	case "bin.hex_encode":
		return expr.BinaryHexEncode{}, true, nil
	case "bin.hex_decode":
		return expr.BinaryHexDecode{Strict: params.Strict}, true, nil
	case "bin.base64_encode":
		return expr.BinaryBase64Encode{}, true, nil
	case "bin.base64_decode":
		return expr.BinaryBase64Decode{Strict: params.Strict}, true, nil
	case "bin.from_buffer":
		dt, err := TypeByName(params.TargetType)
		if err != nil {
			return nil, true, err
		}
		return expr.BinaryFromBuffer{TargetType: dt, LittleEndian: params.LittleEndian}, true, nil
	}
	return nil, false, nil
}
