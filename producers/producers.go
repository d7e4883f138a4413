// Package producers decodes and encodes the "producers" custom section,
// which records the languages, tools and SDKs that produced a module.
//
// Unlike the name and daku sections it is not a subsection stream but a flat
// list of fields:
//
//	count, count x (kind name, entries, entries x (name, version))
//
// where kind is one of "language", "processed-by" or "sdk".
package producers

import (
	"fmt"

	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/internal/field"
)

// CustomSectionName is the custom section name this package decodes.
const CustomSectionName = "producers"

// Options controls decoding. See field.Options.
type Options = field.Options

// Kind is the kind of a producers field.
type Kind uint8

const (
	Language Kind = iota
	ProcessedBy
	SDK
)

var kindNames = [...]string{
	Language:    "language",
	ProcessedBy: "processed-by",
	SDK:         "sdk",
}

// String returns the wire name of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a wire name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// VersionedSoftware names one program and its version.
type VersionedSoftware struct {
	Name    string
	Version string
}

// Field is a list of producers of one kind.
type Field struct {
	Kind Kind
	List []VersionedSoftware
}

// Section is a decoded producers section.
type Section struct {
	Fields []Field
}

// SectionName returns "producers".
func (*Section) SectionName() string {
	return CustomSectionName
}

// Add records a producer, appending to the existing field of the same kind
// or starting a new field.
func (s *Section) Add(kind Kind, name, version string) {
	sw := VersionedSoftware{Name: name, Version: version}
	for i := range s.Fields {
		if s.Fields[i].Kind == kind {
			s.Fields[i].List = append(s.Fields[i].List, sw)
			return
		}
	}
	s.Fields = append(s.Fields, Field{Kind: kind, List: []VersionedSoftware{sw}})
}

// Lookup returns the field of the given kind, if present.
func (s *Section) Lookup(kind Kind) (Field, bool) {
	for _, f := range s.Fields {
		if f.Kind == kind {
			return f, true
		}
	}
	return Field{}, false
}

// Decode parses a producers section payload, copying every name.
func Decode(data []byte) (*Section, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions parses a producers section payload. The payload must be
// consumed exactly.
func DecodeWithOptions(data []byte, opts Options) (*Section, error) {
	r := field.Open(data, opts)
	fields, err := field.Vector(r, readField)
	if err == nil {
		err = r.Finish()
	}
	if err != nil {
		return nil, errors.Within(err, CustomSectionName)
	}
	return &Section{Fields: fields}, nil
}

func readField(r *field.Reader) (Field, error) {
	at := r.Offset()
	tag, err := r.Name()
	if err != nil {
		return Field{}, err
	}
	kind, ok := ParseKind(tag)
	if !ok {
		return Field{}, errors.UnknownDiscriminant(at, "producer kind", tag)
	}
	list, err := field.Vector(r, readSoftware)
	if err != nil {
		return Field{}, errors.Within(err, kind.String())
	}
	return Field{Kind: kind, List: list}, nil
}

func readSoftware(r *field.Reader) (VersionedSoftware, error) {
	name, err := r.Name()
	if err != nil {
		return VersionedSoftware{}, err
	}
	version, err := r.Name()
	if err != nil {
		return VersionedSoftware{}, err
	}
	return VersionedSoftware{Name: name, Version: version}, nil
}

// Encode returns the canonical payload.
func (s *Section) Encode() ([]byte, error) {
	for _, f := range s.Fields {
		if int(f.Kind) >= len(kindNames) {
			return nil, errors.Within(errors.BuilderContract(errors.PhaseEncode,
				"unknown producer kind", f.Kind), CustomSectionName)
		}
	}

	w := field.NewWriter()
	field.WriteVector(w, s.Fields, func(w *field.Writer, f Field) {
		w.Name(f.Kind.String())
		field.WriteVector(w, f.List, func(w *field.Writer, sw VersionedSoftware) {
			w.Name(sw.Name)
			w.Name(sw.Version)
		})
	})
	if err := w.Err(); err != nil {
		return nil, errors.Within(err, CustomSectionName)
	}
	return w.Bytes(), nil
}
