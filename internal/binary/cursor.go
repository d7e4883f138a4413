package binary

import (
	"encoding/binary"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/nucleide/errors"
)

// Cursor is a read-only, bounds-checked view over a byte buffer. It only
// moves forward and never mutates the buffer it reads from.
//
// A borrowing cursor returns strings and byte spans that alias the input;
// the caller must keep the buffer alive and unmodified for as long as the
// decoded values are in use. An owning cursor copies every value it returns.
type Cursor struct {
	data   []byte
	base   int
	borrow bool
}

// NewCursor creates a cursor whose reads return independent copies.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// NewBorrowedCursor creates a cursor whose reads return views into data.
func NewBorrowedCursor(data []byte) *Cursor {
	return &Cursor{data: data, borrow: true}
}

// Offset returns the position of the next unread byte, relative to the
// start of the outermost cursor.
func (c *Cursor) Offset() int {
	return c.base
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.data)
}

// End reports whether all input has been consumed.
func (c *Cursor) End() bool {
	return len(c.data) == 0
}

// Borrowed reports whether reads alias the input buffer.
func (c *Cursor) Borrowed() bool {
	return c.borrow
}

// Finish returns a trailing bytes error unless the cursor is exhausted.
func (c *Cursor) Finish() error {
	if len(c.data) != 0 {
		return errors.TrailingBytes(c.base, len(c.data))
	}
	return nil
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > len(c.data) {
		return nil, errors.Truncated(c.base, n, len(c.data))
	}
	b := c.data[:n:n]
	c.data = c.data[n:]
	c.base += n
	return b, nil
}

// U8 reads one byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// U64 reads a little-endian uint64.
func (c *Cursor) U64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// U128 reads a little-endian 128-bit integer.
func (c *Cursor) U128() (Uint128, error) {
	b, err := c.take(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[:8]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

// Bytes reads exactly n raw bytes.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	if c.borrow {
		return b, nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// String reads n bytes of UTF-8 text. No length prefix is consumed.
func (c *Cursor) String(n int) (string, error) {
	start := c.base
	if n < 0 || n > len(c.data) {
		return "", errors.MalformedString(start,
			"declared length exceeds remaining input")
	}
	b := c.data[:n]
	if !utf8.Valid(b) {
		return "", errors.InvalidUTF8(start, b)
	}
	c.data = c.data[n:]
	c.base += n
	if n == 0 {
		return "", nil
	}
	if c.borrow {
		return unsafe.String(unsafe.SliceData(b), n), nil
	}
	return string(b), nil
}

// Sub carves the next n bytes out as an independent cursor. Reads on the
// returned cursor can never go past those n bytes; offsets stay absolute.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	start := c.base
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{data: b, base: start, borrow: c.borrow}, nil
}
