package scale

import (
	"math/big"
	"math/bits"
)

// U128 is an unsigned 128-bit integer, the width of value-transfer
// amounts on the wire. Lo holds the low 64 bits, Hi the high 64 bits.
// The zero value is zero.
type U128 struct {
	Lo uint64
	Hi uint64
}

// U128From widens a uint64.
func U128From(v uint64) U128 {
	return U128{Lo: v}
}

// IsZero reports whether v is zero.
func (v U128) IsZero() bool {
	return v.Lo == 0 && v.Hi == 0
}

// Cmp returns -1, 0, or +1 comparing v against o.
func (v U128) Cmp(o U128) int {
	switch {
	case v.Hi < o.Hi:
		return -1
	case v.Hi > o.Hi:
		return 1
	case v.Lo < o.Lo:
		return -1
	case v.Lo > o.Lo:
		return 1
	default:
		return 0
	}
}

// Add returns v+o and whether the sum wrapped past 2^128.
func (v U128) Add(o U128) (U128, bool) {
	lo, carry := bits.Add64(v.Lo, o.Lo, 0)
	hi, carry := bits.Add64(v.Hi, o.Hi, carry)
	return U128{Lo: lo, Hi: hi}, carry != 0
}

// Sub returns v-o and whether the subtraction borrowed past zero.
func (v U128) Sub(o U128) (U128, bool) {
	lo, borrow := bits.Sub64(v.Lo, o.Lo, 0)
	hi, borrow := bits.Sub64(v.Hi, o.Hi, borrow)
	return U128{Lo: lo, Hi: hi}, borrow != 0
}

// String renders the value in decimal.
func (v U128) String() string {
	n := new(big.Int).SetUint64(v.Hi)
	n.Lsh(n, 64)
	n.Or(n, new(big.Int).SetUint64(v.Lo))
	return n.String()
}
