package scale

import (
	"encoding/binary"
	"errors"
)

// Decoding errors. All of them mean the response bytes do not match the
// agreed shape; none of them are recoverable by reading further.
var (
	ErrShortBuffer    = errors.New("scale: buffer too short for value")
	ErrTrailingBytes  = errors.New("scale: trailing bytes after value")
	ErrInvalidBool    = errors.New("scale: bool byte is not 0x00 or 0x01")
	ErrInvalidOption  = errors.New("scale: option discriminant is not 0x00 or 0x01")
	ErrLengthOverflow = errors.New("scale: length exceeds compact range")
	ErrNonCanonical   = errors.New("scale: compact length not minimally encoded")
)

// Decoder reads canonical values from a byte slice in order. It never
// copies the input; byte-string reads alias the underlying buffer.
// The zero value over a nil slice decodes nothing but is valid.
type Decoder struct {
	data []byte
	off  int
}

// NewDecoder returns a decoder positioned at the start of data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Remaining reports how many bytes are left unread.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

// Finish fails with ErrTrailingBytes unless every input byte was
// consumed. Callers decode the full expected shape, then call Finish;
// extra bytes mean the shapes disagree.
func (d *Decoder) Finish() error {
	if d.off != len(d.data) {
		return ErrTrailingBytes
	}
	return nil
}

// take advances over n bytes and returns them, or ErrShortBuffer.
func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) U8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) U16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) U32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) U64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) U128() (U128, error) {
	b, err := d.take(16)
	if err != nil {
		return U128{}, err
	}
	return U128{
		Lo: binary.LittleEndian.Uint64(b[0:8]),
		Hi: binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

func (d *Decoder) Bool() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// Option reads the option discriminant. On true the caller reads the
// payload value next; on false there is nothing to read.
func (d *Decoder) Option() (bool, error) {
	b, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidOption
	}
}

// Raw reads n bytes with no prefix, for fixed-width values.
func (d *Decoder) Raw(n int) ([]byte, error) {
	return d.take(n)
}

// Bytes reads a compact length prefix and then that many bytes.
// The returned slice aliases the decoder's input.
func (d *Decoder) Bytes() ([]byte, error) {
	n, err := d.compact()
	if err != nil {
		return nil, err
	}
	return d.take(n)
}

// String is Bytes converted to a string (one copy).
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// compact reads a compact length prefix with staged validation:
// first the mode bits, then the width they demand, then the
// minimal-encoding rule for the decoded value.
func (d *Decoder) compact() (int, error) {
	first, err := d.U8()
	if err != nil {
		return 0, err
	}
	switch first & 0b11 {
	case 0b00:
		return int(first >> 2), nil
	case 0b01:
		second, err := d.U8()
		if err != nil {
			return 0, err
		}
		n := int(uint16(first)|uint16(second)<<8) >> 2
		if n < 1<<6 {
			return 0, ErrNonCanonical
		}
		return n, nil
	case 0b10:
		rest, err := d.take(3)
		if err != nil {
			return 0, err
		}
		v := uint32(first) | uint32(rest[0])<<8 | uint32(rest[1])<<16 | uint32(rest[2])<<24
		n := int(v >> 2)
		if n < 1<<14 {
			return 0, ErrNonCanonical
		}
		return n, nil
	default:
		// mode 0b11 would carry lengths beyond MaxLen
		return 0, ErrLengthOverflow
	}
}
