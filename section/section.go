// Package section converts custom sections between their raw (name, bytes)
// form and the typed name, producers and daku sections.
//
// Recognized names are decoded fully; anything else, or a recognized section
// that fails to decode, stays Opaque so the caller can forward it unchanged:
//
//	typed := section.ToTyped(section.Opaque{Name: "producers", Data: payload})
//	if p, ok := typed.(*producers.Section); ok {
//	    ...
//	}
//
// Use Decode instead of ToTyped when a malformed known section must be
// reported rather than passed through.
package section

import (
	"go.uber.org/zap"

	"github.com/wippyai/nucleide/daku"
	"github.com/wippyai/nucleide/internal/field"
	"github.com/wippyai/nucleide/name"
	"github.com/wippyai/nucleide/producers"
)

// Section is a custom section in either typed or opaque form. The concrete
// types are *name.Section, *producers.Section, *daku.Section and Opaque.
type Section interface {
	SectionName() string
	Encode() ([]byte, error)
}

// Opaque is an undecoded custom section.
type Opaque struct {
	Name string
	Data []byte
}

// SectionName returns the section's name.
func (o Opaque) SectionName() string {
	return o.Name
}

// Encode returns the payload unchanged.
func (o Opaque) Encode() ([]byte, error) {
	return o.Data, nil
}

// Options controls how known sections are decoded.
type Options = field.Options

// DefaultOptions returns options that copy decoded values and let the last
// of several duplicate map keys win.
func DefaultOptions() Options {
	return Options{}
}

type strategy struct {
	decode func(data []byte, opts Options) (Section, error)
}

func typed[S Section](decode func([]byte, Options) (S, error)) strategy {
	return strategy{decode: func(data []byte, opts Options) (Section, error) {
		s, err := decode(data, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}}
}

var strategies = map[string]strategy{
	name.CustomSectionName:      typed(name.DecodeWithOptions),
	producers.CustomSectionName: typed(producers.DecodeWithOptions),
	daku.CustomSectionName:      typed(daku.DecodeWithOptions),
}

// Known reports whether sectionName has a typed representation.
func Known(sectionName string) bool {
	_, ok := strategies[sectionName]
	return ok
}

// Decode decodes a custom section payload by name. Unknown names produce an
// Opaque section; a known section with a malformed payload is an error.
func Decode(sectionName string, data []byte, opts Options) (Section, error) {
	s, ok := strategies[sectionName]
	if !ok {
		return Opaque{Name: sectionName, Data: data}, nil
	}
	return s.decode(data, opts)
}

// ToTyped converts o to its typed form with default options. It never fails:
// unknown or malformed sections come back as o itself.
func ToTyped(o Opaque) Section {
	return ToTypedWithOptions(o, DefaultOptions())
}

// ToTypedWithOptions is ToTyped with explicit decode options.
func ToTypedWithOptions(o Opaque, opts Options) Section {
	s, err := Decode(o.Name, o.Data, opts)
	if err != nil {
		Logger().Debug("custom section left opaque",
			zap.String("section", o.Name),
			zap.Int("size", len(o.Data)),
			zap.Error(err))
		return o
	}
	return s
}

// ToOpaque encodes s into its raw form.
func ToOpaque(s Section) (Opaque, error) {
	if o, ok := s.(Opaque); ok {
		return o, nil
	}
	data, err := s.Encode()
	if err != nil {
		return Opaque{}, err
	}
	return Opaque{Name: s.SectionName(), Data: data}, nil
}

// Order returns the relative position of a known section name, which must
// appear as name, producers, daku. Unknown names return -1.
func Order(sectionName string) int {
	switch sectionName {
	case name.CustomSectionName:
		return 0
	case producers.CustomSectionName:
		return 1
	case daku.CustomSectionName:
		return 2
	}
	return -1
}
