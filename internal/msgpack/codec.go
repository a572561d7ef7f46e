// Package msgpack provides MessagePack encoding/decoding for serialized
// expression plans.
package msgpack

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrEmpty is returned when decoding an empty payload.
var ErrEmpty = errors.New("empty MessagePack data")

// RawMessage is a raw encoded MessagePack value. Use it to delay decoding
// until the target Go type is known.
type RawMessage = msgpack.RawMessage

// Encode serializes a Go value into MessagePack format.
// Struct fields are encoded by their msgpack tags.
func Encode(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return data, nil
}

// Decode deserializes MessagePack data into v, which must be a pointer.
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return nil
}
