// Package scale implements the canonical binary encoding shared by both
// sides of the extension-call boundary.
//
// The encoding is deterministic: one value, one byte sequence. There is
// no padding, no alignment, and no self-description. Both sides agree on
// the shape of every payload ahead of time, so the bytes carry values
// only.
//
// Scalars are little-endian and fixed width. Variable-length values
// (byte strings) carry a compact length prefix whose two lowest bits
// select the width of the prefix itself:
//
//	┌──────┬───────────────┬──────────────────────────────┐
//	│ mode │ prefix width  │ representable lengths        │
//	├──────┼───────────────┼──────────────────────────────┤
//	│ 0b00 │ 1 byte        │ 0 .. 63                      │
//	│ 0b01 │ 2 bytes (LE)  │ 64 .. 16383                  │
//	│ 0b10 │ 4 bytes (LE)  │ 16384 .. 2^30-1              │
//	│ 0b11 │ reserved      │ rejected                     │
//	└──────┴───────────────┴──────────────────────────────┘
//
// The encoder always emits the narrowest mode that fits, and the decoder
// rejects anything wider than necessary. Without that rule the same
// length would have up to three encodings and determinism would be lost.
package scale

import "encoding/binary"

// MaxLen is the largest byte-string length the compact prefix can carry.
// Longer collections are rejected at construction time, before any bytes
// cross the boundary.
const MaxLen = 1<<30 - 1

// Encoder builds a canonical payload by appending values in order.
// The zero value is ready to use. Encoders are single-use: build the
// payload, take Bytes, discard.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with room for n bytes preallocated.
func NewEncoder(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Bytes returns the encoded payload. The slice is owned by the caller
// afterwards; the encoder must not be reused.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len reports the number of bytes encoded so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) PutU8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) PutU16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) PutU32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) PutU64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// PutU128 writes the low word then the high word, so the 16 bytes read
// as one little-endian 128-bit integer.
func (e *Encoder) PutU128(v U128) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v.Lo)
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v.Hi)
}

// PutBool writes 0x01 for true, 0x00 for false. No other byte is a
// valid bool on the wire.
func (e *Encoder) PutBool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

// PutOption writes the option discriminant: 0x00 absent, 0x01 present.
// When present, the caller appends the payload value next.
func (e *Encoder) PutOption(present bool) {
	e.PutBool(present)
}

// PutRaw appends bytes verbatim with no length prefix. Used for
// fixed-width values such as 32-byte account identifiers, where the
// width is part of the agreed shape.
func (e *Encoder) PutRaw(b []byte) {
	e.buf = append(e.buf, b...)
}

// PutBytes writes a compact length prefix followed by the bytes.
// Lengths above MaxLen are unrepresentable and rejected here, at
// construction time.
func (e *Encoder) PutBytes(b []byte) error {
	if err := e.putCompact(len(b)); err != nil {
		return err
	}
	e.buf = append(e.buf, b...)
	return nil
}

// PutString is PutBytes over the string's bytes.
func (e *Encoder) PutString(s string) error {
	if err := e.putCompact(len(s)); err != nil {
		return err
	}
	e.buf = append(e.buf, s...)
	return nil
}

// putCompact emits the narrowest compact mode that fits n.
func (e *Encoder) putCompact(n int) error {
	switch {
	case n < 0 || n > MaxLen:
		return ErrLengthOverflow
	case n < 1<<6:
		// mode 0b00: length in the high six bits of one byte
		e.buf = append(e.buf, uint8(n)<<2)
	case n < 1<<14:
		// mode 0b01: length in the high fourteen bits of two bytes
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(n)<<2|0b01)
	default:
		// mode 0b10: length in the high thirty bits of four bytes
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(n)<<2|0b10)
	}
	return nil
}
