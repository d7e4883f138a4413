// Package daku decodes and encodes the "daku" custom section: the list of
// portals (host capabilities) a module requests, optionally followed by the
// Nucleide desktop integration extension.
//
// Wire layout:
//
//	count, count x portal     portals, strictly increasing
//	[subsection stream]       Nucleide extension, IDs 0..6 strictly increasing
//
// Portals are collected with a Portals builder, which rejects a portal that
// does not follow the previous one as soon as it is appended:
//
//	var p daku.Portals
//	_ = p.Append(daku.PortalLog)
//	_ = p.Append(daku.PortalFetch)
//	sec := &daku.Section{Portals: p.List()}
package daku

import (
	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/internal/field"
)

// CustomSectionName is the custom section name this package decodes.
const CustomSectionName = "daku"

// Options controls decoding. See field.Options.
type Options = field.Options

// Portals accumulates a strictly increasing portal list.
// The zero value is empty and ready to use.
type Portals struct {
	list []Portal
}

// NewPortals builds a list from portals, failing at the first one that is
// unknown or out of order.
func NewPortals(portals ...Portal) (*Portals, error) {
	p := &Portals{}
	for _, portal := range portals {
		if err := p.Append(portal); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Append adds portal to the end of the list. It must be a known portal
// greater than the last one appended; otherwise the list is unchanged and a
// builder contract error is returned.
func (p *Portals) Append(portal Portal) error {
	if !portal.Valid() {
		return errors.New(errors.PhaseBuild, errors.KindBuilderContract).
			Path(CustomSectionName, "portals").
			Value(portal).
			Detail("unknown portal %s", portal).
			Build()
	}
	if n := len(p.list); n > 0 && portal <= p.list[n-1] {
		return errors.New(errors.PhaseBuild, errors.KindBuilderContract).
			Path(CustomSectionName, "portals").
			Value(portal).
			Detail("portal %s appended after %s", portal, p.list[n-1]).
			Build()
	}
	p.list = append(p.list, portal)
	return nil
}

// Len returns the number of portals.
func (p *Portals) Len() int {
	return len(p.list)
}

// List returns the portals in order. The slice must not be modified.
func (p *Portals) List() []Portal {
	return p.list
}

// Section is a decoded daku section. An empty Nucleide list means the
// extension is absent.
type Section struct {
	Portals  []Portal
	Nucleide []Nucleide
}

// SectionName returns "daku".
func (*Section) SectionName() string {
	return CustomSectionName
}

// Has reports whether portal is requested.
func (s *Section) Has(portal Portal) bool {
	for _, p := range s.Portals {
		if p == portal {
			return true
		}
	}
	return false
}

// Lookup returns the Nucleide subsection with the given ID, or nil.
func (s *Section) Lookup(id NucleideID) Nucleide {
	for _, n := range s.Nucleide {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// Decode parses a daku section payload, copying names and file data.
func Decode(data []byte) (*Section, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions parses a daku section payload. Portals must be known and
// strictly increasing; whatever follows them must be a valid Nucleide
// subsection stream.
func DecodeWithOptions(data []byte, opts Options) (*Section, error) {
	r := field.Open(data, opts)

	portals, err := readPortals(r)
	if err != nil {
		return nil, errors.Within(errors.Within(err, "portals"), CustomSectionName)
	}

	sec := &Section{Portals: portals}
	if r.End() {
		return sec, nil
	}

	sec.Nucleide, err = nucleideGrammar.Decode(r)
	if err != nil {
		return nil, errors.Within(errors.Within(err, "nucleide"), CustomSectionName)
	}
	return sec, nil
}

func readPortals(r *field.Reader) ([]Portal, error) {
	var prev Portal
	first := true
	return field.Vector(r, func(r *field.Reader) (Portal, error) {
		at := r.Offset()
		v, err := r.Integer()
		if err != nil {
			return 0, err
		}
		p := Portal(v)
		if !p.Valid() {
			return 0, errors.UnknownDiscriminant(at, "portal", v)
		}
		if !first && p <= prev {
			return 0, errors.OutOfOrder(at, "portal", v, uint32(prev)+1)
		}
		prev, first = p, false
		return p, nil
	})
}

// Encode returns the canonical payload. The portal list must be strictly
// increasing and the Nucleide subsections in ID order.
func (s *Section) Encode() ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, errors.Within(err, CustomSectionName)
	}

	w := field.NewWriter()
	field.WriteVector(w, s.Portals, func(w *field.Writer, p Portal) {
		w.Integer(uint32(p))
	})
	if len(s.Nucleide) > 0 {
		if err := nucleideGrammar.Encode(w, s.Nucleide); err != nil {
			return nil, errors.Within(errors.Within(err, "nucleide"), CustomSectionName)
		}
	}
	if err := w.Err(); err != nil {
		return nil, errors.Within(err, CustomSectionName)
	}
	return w.Bytes(), nil
}

func (s *Section) validate() error {
	var p Portals
	for _, portal := range s.Portals {
		if err := p.Append(portal); err != nil {
			e := err.(*errors.Error)
			e.Phase = errors.PhaseEncode
			e.Path = []string{"portals"}
			return e
		}
	}
	for _, n := range s.Nucleide {
		c, ok := n.(Categories)
		if !ok {
			continue
		}
		for _, cat := range c.Categories {
			if !cat.Valid() {
				return errors.New(errors.PhaseEncode, errors.KindBuilderContract).
					Path("nucleide", NucleideCategories.String()).
					Value(cat).
					Detail("unknown category %s", cat).
					Build()
			}
		}
	}
	return nil
}
