//go:build nobinaryencoding

package expr

// BinaryEncodingEnabled reports whether the encode, decode and from_buffer
// functions are compiled in.
const BinaryEncodingEnabled = false
