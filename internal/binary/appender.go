package binary

import (
	"bytes"
	"encoding/binary"
)

// Appender is an append-only, exclusively owned output buffer.
type Appender struct {
	buf *bytes.Buffer
}

// NewAppender creates an empty Appender.
func NewAppender() *Appender {
	return &Appender{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (a *Appender) Bytes() []byte {
	return a.buf.Bytes()
}

// Len returns the number of bytes written.
func (a *Appender) Len() int {
	return a.buf.Len()
}

// U8 writes a single byte.
func (a *Appender) U8(b uint8) {
	a.buf.WriteByte(b)
}

// U16 writes a little-endian uint16.
func (a *Appender) U16(v uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	a.buf.Write(buf[:])
}

// U32 writes a little-endian uint32.
func (a *Appender) U32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	a.buf.Write(buf[:])
}

// U64 writes a little-endian uint64.
func (a *Appender) U64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	a.buf.Write(buf[:])
}

// U128 writes a little-endian 128-bit integer.
func (a *Appender) U128(v Uint128) {
	a.U64(v.Lo)
	a.U64(v.Hi)
}

// Write appends raw bytes.
func (a *Appender) Write(data []byte) {
	a.buf.Write(data)
}

// String appends the bytes of s without a length prefix.
func (a *Appender) String(s string) {
	a.buf.WriteString(s)
}
