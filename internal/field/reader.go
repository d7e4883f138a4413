package field

import (
	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/internal/binary"
)

// Options controls how field values are decoded.
type Options struct {
	// Borrow makes decoded names and byte spans alias the input buffer
	// instead of copying them.
	Borrow bool

	// RejectDuplicateKeys fails a map whose keys repeat instead of letting
	// the last occurrence win.
	RejectDuplicateKeys bool
}

// Reader decodes field-level values from a cursor.
type Reader struct {
	*binary.Cursor
	opts Options
}

// NewReader wraps c.
func NewReader(c *binary.Cursor, opts Options) *Reader {
	return &Reader{Cursor: c, opts: opts}
}

// Open creates a Reader over a whole section payload.
func Open(data []byte, opts Options) *Reader {
	if opts.Borrow {
		return NewReader(binary.NewBorrowedCursor(data), opts)
	}
	return NewReader(binary.NewCursor(data), opts)
}

// Sub carves the next n bytes out as a bounded reader with the same options.
func (r *Reader) Sub(n int) (*Reader, error) {
	c, err := r.Cursor.Sub(n)
	if err != nil {
		return nil, err
	}
	return &Reader{Cursor: c, opts: r.opts}, nil
}

// Integer reads a LEB128 u32.
func (r *Reader) Integer() (uint32, error) {
	return r.Varuint32()
}

// Name reads a length-prefixed UTF-8 string.
func (r *Reader) Name() (string, error) {
	n, err := r.Integer()
	if err != nil {
		return "", err
	}
	return r.String(int(n))
}

// Blob reads a length-prefixed byte span.
func (r *Reader) Blob() ([]byte, error) {
	n, err := r.Integer()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}

// count reads a vector length and bounds the capacity to reserve for it by
// the bytes left, since every element takes at least one byte.
func (r *Reader) count() (uint32, int, error) {
	n, err := r.Integer()
	if err != nil {
		return 0, 0, err
	}
	return n, int(min(uint64(n), uint64(r.Len()))), nil
}

// Vector reads a count followed by that many elements.
func Vector[T any](r *Reader, elem func(*Reader) (T, error)) ([]T, error) {
	n, capacity, err := r.count()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, capacity)
	for i := uint32(0); i < n; i++ {
		v, err := elem(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Map reads a count followed by that many (u32 key, value) pairs. A key that
// repeats overwrites the earlier entry unless duplicates are rejected.
func Map[V any](r *Reader, value func(*Reader) (V, error)) (map[uint32]V, error) {
	n, capacity, err := r.count()
	if err != nil {
		return nil, err
	}
	out := make(map[uint32]V, capacity)
	for i := uint32(0); i < n; i++ {
		at := r.Offset()
		k, err := r.Integer()
		if err != nil {
			return nil, err
		}
		v, err := value(r)
		if err != nil {
			return nil, err
		}
		if _, dup := out[k]; dup && r.opts.RejectDuplicateKeys {
			return nil, errors.DuplicateKey(at, k)
		}
		out[k] = v
	}
	return out, nil
}

// NameMap reads an index to name mapping.
func (r *Reader) NameMap() (NameMap, error) {
	return Map(r, (*Reader).Name)
}

// IndirectNameMap reads an index to name map mapping.
func (r *Reader) IndirectNameMap() (IndirectNameMap, error) {
	return Map(r, (*Reader).NameMap)
}
