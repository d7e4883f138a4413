package binary

import (
	"math/big"
)

// Uint128 is an unsigned 128-bit integer split into two 64-bit halves.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// IsZero reports whether u is zero.
func (u Uint128) IsZero() bool {
	return u.Lo == 0 && u.Hi == 0
}

// Low7 returns the lowest seven bits.
func (u Uint128) Low7() byte {
	return byte(u.Lo & 0x7f)
}

// Rsh7 shifts u right by seven bits.
func (u Uint128) Rsh7() Uint128 {
	return Uint128{
		Lo: u.Lo>>7 | u.Hi<<57,
		Hi: u.Hi >> 7,
	}
}

// orGroup sets a seven-bit group at the given bit offset.
func (u *Uint128) orGroup(group uint64, shift uint) {
	switch {
	case shift < 64:
		u.Lo |= group << shift
		if shift > 57 {
			u.Hi |= group >> (64 - shift)
		}
	default:
		u.Hi |= group << (shift - 64)
	}
}

// Big converts u to a big.Int.
func (u Uint128) Big() *big.Int {
	hi := new(big.Int).SetUint64(u.Hi)
	hi.Lsh(hi, 64)
	return hi.Or(hi, new(big.Int).SetUint64(u.Lo))
}

// String formats u in decimal.
func (u Uint128) String() string {
	return u.Big().String()
}
