// Package value converts typed values to and from the byte strings stored in
// a key-value backend.
//
// Scalars, enum constants, timestamps and identifiers are written as
// culture-invariant UTF-8 text with no type marker or length prefix; byte
// blocks are written as-is; everything else is handed to a pluggable
// structured serializer (JSON by default). The single byte 0x00 is reserved
// for Null and is never produced for a non-null value by the structured path:
//
//	c := value.NewCodec()
//	data, _ := c.Encode(value.Int32(42)) // "42"
//	v, _ := c.Decode(data, value.TypeInt32)
//
// Decoding is driven by the caller-supplied Type, which must match the type
// used when encoding. Go callers can use Marshal and Unmarshal to derive the
// type from a Go type parameter instead.
package value
