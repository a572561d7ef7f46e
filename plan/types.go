package plan

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// typesByName maps Arrow type names to the types a plan may reference.
var typesByName = map[string]arrow.DataType{}

func init() {
	for _, dt := range []arrow.DataType{
		arrow.Null,
		arrow.FixedWidthTypes.Boolean,
		arrow.PrimitiveTypes.Int8,
		arrow.PrimitiveTypes.Int16,
		arrow.PrimitiveTypes.Int32,
		arrow.PrimitiveTypes.Int64,
		arrow.PrimitiveTypes.Uint8,
		arrow.PrimitiveTypes.Uint16,
		arrow.PrimitiveTypes.Uint32,
		arrow.PrimitiveTypes.Uint64,
		arrow.PrimitiveTypes.Float32,
		arrow.PrimitiveTypes.Float64,
		arrow.BinaryTypes.String,
		arrow.BinaryTypes.Binary,
		arrow.BinaryTypes.LargeString,
		arrow.BinaryTypes.LargeBinary,
	} {
		typesByName[dt.Name()] = dt
	}
}

// TypeByName returns the Arrow type registered under name.
func TypeByName(name string) (arrow.DataType, error) {
	dt, ok := typesByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return dt, nil
}

// typeName returns the wire name of dt, or an error when it cannot be
// decoded again.
func typeName(dt arrow.DataType) (string, error) {
	if dt == nil {
		return "", fmt.Errorf("%w: nil", ErrUnknownType)
	}
	known, ok := typesByName[dt.Name()]
	if !ok || !arrow.TypeEqual(known, dt) {
		return "", fmt.Errorf("%w: %s", ErrUnknownType, dt)
	}
	return dt.Name(), nil
}
