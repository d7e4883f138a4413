package binary

import (
	"github.com/wippyai/nucleide/errors"
)

// Unsigned LEB128: little-endian groups of seven bits, high bit set on every
// byte except the last.
//
// Decoding into a W-bit target reads at most ceil(W/7) bytes. On the last
// permitted byte the continuation bit must be clear and only the low
// W-7*(n-1) bits may be set, so a value wider than the target is rejected
// instead of being truncated.

// MaxVarintLen returns the longest valid encoding for a target width.
func MaxVarintLen(bits uint) int {
	return int((bits + 6) / 7)
}

// Uvarint reads an unsigned LEB128 value that must fit in bits (1..64).
// The cursor does not advance when decoding fails.
func (c *Cursor) Uvarint(bits uint) (uint64, error) {
	start := c.base
	limit := uint(MaxVarintLen(bits))
	var result uint64
	for i := uint(0); i < limit; i++ {
		if int(i) >= len(c.data) {
			return 0, errors.MalformedInteger(start, bits, "unexpected end of input")
		}
		b := c.data[i]
		shift := 7 * i
		if i == limit-1 {
			if b&0x80 != 0 {
				return 0, errors.MalformedInteger(start, bits, "encoding too long")
			}
			if rem := bits - shift; rem < 7 && b>>rem != 0 {
				return 0, errors.MalformedInteger(start, bits, "value exceeds target width")
			}
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			c.data = c.data[i+1:]
			c.base += int(i + 1)
			return result, nil
		}
	}
	// unreachable: the last permitted byte either returns or fails above
	return 0, errors.MalformedInteger(start, bits, "encoding too long")
}

// Varuint8 reads an unsigned LEB128 uint8.
func (c *Cursor) Varuint8() (uint8, error) {
	v, err := c.Uvarint(8)
	return uint8(v), err
}

// Varuint16 reads an unsigned LEB128 uint16.
func (c *Cursor) Varuint16() (uint16, error) {
	v, err := c.Uvarint(16)
	return uint16(v), err
}

// Varuint32 reads an unsigned LEB128 uint32.
func (c *Cursor) Varuint32() (uint32, error) {
	v, err := c.Uvarint(32)
	return uint32(v), err
}

// Varuint64 reads an unsigned LEB128 uint64.
func (c *Cursor) Varuint64() (uint64, error) {
	return c.Uvarint(64)
}

// Varuint128 reads an unsigned LEB128 128-bit value.
func (c *Cursor) Varuint128() (Uint128, error) {
	const bits = 128
	start := c.base
	limit := uint(MaxVarintLen(bits))
	var result Uint128
	for i := uint(0); i < limit; i++ {
		if int(i) >= len(c.data) {
			return Uint128{}, errors.MalformedInteger(start, bits, "unexpected end of input")
		}
		b := c.data[i]
		shift := 7 * i
		if i == limit-1 {
			if b&0x80 != 0 {
				return Uint128{}, errors.MalformedInteger(start, bits, "encoding too long")
			}
			if rem := bits - shift; rem < 7 && b>>rem != 0 {
				return Uint128{}, errors.MalformedInteger(start, bits, "value exceeds target width")
			}
		}
		result.orGroup(uint64(b&0x7f), shift)
		if b&0x80 == 0 {
			c.data = c.data[i+1:]
			c.base += int(i + 1)
			return result, nil
		}
	}
	return Uint128{}, errors.MalformedInteger(start, bits, "encoding too long")
}

// Uvarint writes v in canonical unsigned LEB128.
func (a *Appender) Uvarint(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		a.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// Varuint32 writes v in canonical unsigned LEB128.
func (a *Appender) Varuint32(v uint32) {
	a.Uvarint(uint64(v))
}

// Varuint128 writes v in canonical unsigned LEB128.
func (a *Appender) Varuint128(v Uint128) {
	for {
		b := v.Low7()
		v = v.Rsh7()
		if !v.IsZero() {
			b |= 0x80
		}
		a.buf.WriteByte(b)
		if v.IsZero() {
			break
		}
	}
}

// AppendUvarint encodes v as unsigned LEB128 onto dst.
func AppendUvarint(dst []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if v == 0 {
			return dst
		}
	}
}
