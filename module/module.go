// Package module is a thin WebAssembly container around the custom section
// codecs. It splits a binary into its sections without interpreting the
// non-custom ones, exposes the custom sections in order as raw or typed
// values, lets callers add, replace and remove custom sections, and writes
// the module back out.
//
//	m, err := module.Parse(wasmBytes)
//	if err != nil {
//	    return err
//	}
//	secs, err := m.Sections() // fails if name/producers/daku are misordered
//	...
//	m.SetSection(&producers.Section{...})
//	out := m.Encode()
package module

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/internal/binary"
	"github.com/wippyai/nucleide/internal/field"
)

// Section is one top-level section of a module. For custom sections Name is
// set and Data is the payload after the name; for all others Name is empty
// and Data is the whole section contents.
type Section struct {
	ID   byte
	Name string
	Data []byte
}

// IsCustom reports whether s is a custom section.
func (s Section) IsCustom() bool {
	return s.ID == SectionCustom
}

// Module is a parsed WebAssembly binary, kept as an ordered section list.
type Module struct {
	sections []Section
}

// New returns an empty module with no sections.
func New() *Module {
	return &Module{}
}

// Parse splits data into sections. Non-custom sections must appear in their
// canonical order and at most once; custom section names must be valid
// UTF-8. Section contents are copied.
func Parse(data []byte) (*Module, error) {
	r := field.NewReader(binary.NewCursor(data), field.Options{})

	magic, err := r.U32()
	if err != nil {
		return nil, errors.InvalidModule(0, "missing header", err)
	}
	if magic != Magic {
		return nil, errors.InvalidModule(0, fmt.Sprintf("invalid magic number %#08x", magic), nil)
	}
	version, err := r.U32()
	if err != nil {
		return nil, errors.InvalidModule(4, "missing version", err)
	}
	if version != Version {
		return nil, errors.InvalidModule(4, fmt.Sprintf("unsupported version %d", version), nil)
	}

	m := &Module{}
	var lastOrder int

	for !r.End() {
		at := r.Offset()
		id, err := r.U8()
		if err != nil {
			return nil, errors.InvalidModule(at, "section header", err)
		}

		if id != SectionCustom {
			order := sectionOrder(id)
			if order == 0 {
				return nil, errors.InvalidModule(at, fmt.Sprintf("unknown section id %#02x", id), nil)
			}
			if order <= lastOrder {
				return nil, errors.InvalidModule(at, fmt.Sprintf("section %d appears out of order", id), nil)
			}
			lastOrder = order
		}

		size, err := r.Integer()
		if err != nil {
			return nil, errors.InvalidModule(at, "section size", err)
		}
		body, err := r.Sub(int(size))
		if err != nil {
			return nil, errors.InvalidModule(at, "section data", err)
		}

		sec := Section{ID: id}
		if id == SectionCustom {
			if sec.Name, err = body.Name(); err != nil {
				return nil, errors.InvalidModule(at, "custom section name", err)
			}
		}
		if sec.Data, err = body.Bytes(body.Len()); err != nil {
			return nil, errors.InvalidModule(at, "section data", err)
		}
		m.sections = append(m.sections, sec)
	}

	Logger().Debug("parsed module",
		zap.Int("size", len(data)),
		zap.Int("sections", len(m.sections)))
	return m, nil
}

// AllSections returns every section in order. The slice must not be
// modified.
func (m *Module) AllSections() []Section {
	return m.sections
}

// Encode serializes the module.
func (m *Module) Encode() []byte {
	w := field.NewWriter()
	w.U32(Magic)
	w.U32(Version)

	for _, sec := range m.sections {
		body := field.NewWriter()
		if sec.IsCustom() {
			body.Name(sec.Name)
		}
		body.Write(sec.Data)
		writeSection(w, sec.ID, body)
	}
	return w.Bytes()
}

func writeSection(w *field.Writer, id byte, body *field.Writer) {
	w.U8(id)
	w.Frame(body)
}
