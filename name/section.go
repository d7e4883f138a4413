package name

import (
	"fmt"

	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/internal/field"
)

// CustomSectionName is the custom section name this package decodes.
const CustomSectionName = "name"

// Options controls decoding. See field.Options.
type Options = field.Options

// Section is a decoded name section: subsections in increasing ID order.
type Section struct {
	Subsections []Subsection
}

// SectionName returns "name".
func (*Section) SectionName() string {
	return CustomSectionName
}

// Decode parses a name section payload, copying every name.
func Decode(data []byte) (*Section, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions parses a name section payload. The whole payload must
// be a valid subsection stream; nothing is returned on failure.
func DecodeWithOptions(data []byte, opts Options) (*Section, error) {
	subs, err := grammar.Decode(field.Open(data, opts))
	if err != nil {
		return nil, errors.Within(err, CustomSectionName)
	}
	return &Section{Subsections: subs}, nil
}

// Encode returns the canonical payload. Subsections out of ID order, or
// whose Kind does not fit their shape, are rejected.
func (s *Section) Encode() ([]byte, error) {
	w := field.NewWriter()
	if err := grammar.Encode(w, s.Subsections); err != nil {
		return nil, errors.Within(err, CustomSectionName)
	}
	return w.Bytes(), nil
}

// Lookup returns the subsection with the given ID, or nil.
func (s *Section) Lookup(id ID) Subsection {
	for _, sub := range s.Subsections {
		if sub.ID() == id {
			return sub
		}
	}
	return nil
}

// ModuleName returns the module name subsection, if present.
func (s *Section) ModuleName() (string, bool) {
	if m, ok := s.Lookup(SubsectionModule).(ModuleName); ok {
		return m.Name, true
	}
	return "", false
}

// FunctionName returns the debug name of function index idx, if present.
func (s *Section) FunctionName(idx uint32) (string, bool) {
	if n, ok := s.Lookup(SubsectionFunction).(Names); ok {
		name, ok := n.Names[idx]
		return name, ok
	}
	return "", false
}

var grammar = &field.Grammar[Subsection]{
	Section: CustomSectionName,
	ID:      func(s Subsection) uint8 { return uint8(s.ID()) },
	Rules: []field.Rule[Subsection]{
		SubsectionModule:   moduleRule(),
		SubsectionFunction: namesRule(SubsectionFunction),
		SubsectionLocal:    indirectRule(SubsectionLocal),
		SubsectionLabel:    indirectRule(SubsectionLabel),
		SubsectionType:     namesRule(SubsectionType),
		SubsectionTable:    namesRule(SubsectionTable),
		SubsectionMemory:   namesRule(SubsectionMemory),
		SubsectionGlobal:   namesRule(SubsectionGlobal),
		SubsectionElement:  namesRule(SubsectionElement),
		SubsectionData:     namesRule(SubsectionData),
	},
}

func moduleRule() field.Rule[Subsection] {
	return field.Rule[Subsection]{
		Name: SubsectionModule.String(),
		Decode: func(r *field.Reader) (Subsection, error) {
			s, err := r.Name()
			if err != nil {
				return nil, err
			}
			return ModuleName{Name: s}, nil
		},
		Encode: func(w *field.Writer, sub Subsection) error {
			m, ok := sub.(ModuleName)
			if !ok {
				return shapeMismatch(sub)
			}
			w.Name(m.Name)
			return nil
		},
	}
}

func namesRule(id ID) field.Rule[Subsection] {
	return field.Rule[Subsection]{
		Name: id.String(),
		Decode: func(r *field.Reader) (Subsection, error) {
			m, err := r.NameMap()
			if err != nil {
				return nil, err
			}
			return Names{Kind: id, Names: m}, nil
		},
		Encode: func(w *field.Writer, sub Subsection) error {
			n, ok := sub.(Names)
			if !ok {
				return shapeMismatch(sub)
			}
			w.NameMap(n.Names)
			return nil
		},
	}
}

func indirectRule(id ID) field.Rule[Subsection] {
	return field.Rule[Subsection]{
		Name: id.String(),
		Decode: func(r *field.Reader) (Subsection, error) {
			m, err := r.IndirectNameMap()
			if err != nil {
				return nil, err
			}
			return IndirectNames{Kind: id, Names: m}, nil
		},
		Encode: func(w *field.Writer, sub Subsection) error {
			n, ok := sub.(IndirectNames)
			if !ok {
				return shapeMismatch(sub)
			}
			w.IndirectNameMap(n.Names)
			return nil
		},
	}
}

func shapeMismatch(sub Subsection) error {
	return errors.BuilderContract(errors.PhaseEncode,
		fmt.Sprintf("%T cannot carry %s names", sub, sub.ID()), sub)
}
