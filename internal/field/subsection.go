package field

import (
	"fmt"

	"github.com/wippyai/nucleide/errors"
)

// Rule is the grammar for one subsection discriminant.
type Rule[T any] struct {
	Name   string
	Decode func(*Reader) (T, error)
	Encode func(*Writer, T) error
}

// Grammar describes a stream of framed subsections
//
//	(discriminant: u8, length: u32 LEB128, payload: length bytes)
//
// whose discriminants are the indices of Rules and must appear in strictly
// increasing order.
type Grammar[T any] struct {
	Section string
	ID      func(T) uint8
	Rules   []Rule[T]
}

// Decode reads subsections until r is exhausted. Every payload is decoded
// from its own bounded reader and must be consumed completely. Any failure
// discards everything decoded so far.
func (g *Grammar[T]) Decode(r *Reader) ([]T, error) {
	var out []T
	next := 0

	for !r.End() {
		at := r.Offset()
		id, err := r.U8()
		if err != nil {
			return nil, err
		}
		n, err := r.Integer()
		if err != nil {
			return nil, err
		}
		payload, err := r.Sub(int(n))
		if err != nil {
			return nil, err
		}

		if int(id) < next {
			return nil, errors.OutOfOrder(at, g.Section+" subsection", uint32(id), uint32(next))
		}
		if int(id) >= len(g.Rules) {
			return nil, errors.UnknownDiscriminant(at, g.Section+" subsection", id)
		}

		rule := g.Rules[id]
		v, err := rule.Decode(payload)
		if err != nil {
			return nil, errors.Within(err, rule.Name)
		}
		if err := payload.Finish(); err != nil {
			return nil, errors.Within(err, rule.Name)
		}

		out = append(out, v)
		next = int(id) + 1
	}

	return out, nil
}

// Encode frames each item under its discriminant. Items must already be in
// strictly increasing discriminant order; anything else is a caller error.
func (g *Grammar[T]) Encode(w *Writer, items []T) error {
	next := 0

	for _, item := range items {
		id := g.ID(item)
		if int(id) >= len(g.Rules) {
			return errors.BuilderContract(errors.PhaseEncode,
				fmt.Sprintf("unknown %s subsection %d", g.Section, id), id)
		}
		if int(id) < next {
			return errors.BuilderContract(errors.PhaseEncode,
				fmt.Sprintf("%s subsection %s out of order", g.Section, g.Rules[id].Name), id)
		}

		payload := NewWriter()
		if err := g.Rules[id].Encode(payload, item); err != nil {
			return errors.Within(err, g.Rules[id].Name)
		}
		w.U8(id)
		w.Frame(payload)
		next = int(id) + 1
	}

	return w.Err()
}
