package field

import (
	"math"

	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/internal/binary"
)

// Writer encodes field-level values onto an Appender. The first length
// that cannot be represented as a u32 is remembered and reported by Err.
type Writer struct {
	*binary.Appender
	err error
}

// NewWriter creates a Writer over a fresh Appender.
func NewWriter() *Writer {
	return &Writer{Appender: binary.NewAppender()}
}

// Err returns the first encoding error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Integer writes a LEB128 u32.
func (w *Writer) Integer(v uint32) {
	w.Varuint32(v)
}

// Length writes a count or byte length as a LEB128 u32.
func (w *Writer) Length(n int) {
	if n > math.MaxUint32 {
		if w.err == nil {
			w.err = errors.BuilderContract(errors.PhaseEncode, "length exceeds u32", n)
		}
		n = math.MaxUint32
	}
	w.Integer(uint32(n))
}

// Name writes a length-prefixed UTF-8 string.
func (w *Writer) Name(s string) {
	w.Length(len(s))
	w.String(s)
}

// Blob writes a length-prefixed byte span.
func (w *Writer) Blob(b []byte) {
	w.Length(len(b))
	w.Write(b)
}

// Frame writes a payload produced by another Writer, prefixed by its length.
func (w *Writer) Frame(payload *Writer) {
	if payload.err != nil && w.err == nil {
		w.err = payload.err
	}
	w.Blob(payload.Bytes())
}

// WriteVector writes a count followed by each element.
func WriteVector[T any](w *Writer, items []T, elem func(*Writer, T)) {
	w.Length(len(items))
	for _, item := range items {
		elem(w, item)
	}
}

// WriteMap writes a count followed by (key, value) pairs in ascending key
// order.
func WriteMap[V any](w *Writer, m map[uint32]V, value func(*Writer, V)) {
	w.Length(len(m))
	for _, k := range sortedKeys(m) {
		w.Integer(k)
		value(w, m[k])
	}
}

// NameMap writes an index to name mapping.
func (w *Writer) NameMap(m NameMap) {
	WriteMap(w, m, (*Writer).Name)
}

// IndirectNameMap writes an index to name map mapping.
func (w *Writer) IndirectNameMap(m IndirectNameMap) {
	WriteMap(w, m, (*Writer).NameMap)
}
