package module

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/nucleide/errors"
	"github.com/wippyai/nucleide/section"
)

// CustomSections returns the custom sections in module order. Among the
// name, producers and daku sections each may appear at most once, and in
// that relative order; otherwise a section order error is returned.
func (m *Module) CustomSections() ([]section.Opaque, error) {
	var out []section.Opaque
	last, lastName := -1, ""

	for _, sec := range m.sections {
		if !sec.IsCustom() {
			continue
		}
		index := len(out)
		out = append(out, section.Opaque{Name: sec.Name, Data: sec.Data})

		order := section.Order(sec.Name)
		if order < 0 {
			continue
		}
		switch {
		case order == last:
			return nil, errors.SectionOrder(index, sec.Name, "appears more than once")
		case order < last:
			return nil, errors.SectionOrder(index, sec.Name, "must come before "+lastName)
		}
		last, lastName = order, sec.Name
	}
	return out, nil
}

// Sections returns the custom sections converted with section.ToTyped.
func (m *Module) Sections() ([]section.Section, error) {
	return m.SectionsWithOptions(section.DefaultOptions())
}

// SectionsWithOptions is Sections with explicit decode options.
func (m *Module) SectionsWithOptions(opts section.Options) ([]section.Section, error) {
	raw, err := m.CustomSections()
	if err != nil {
		return nil, err
	}
	out := make([]section.Section, len(raw))
	for i, o := range raw {
		out[i] = section.ToTypedWithOptions(o, opts)
	}
	return out, nil
}

// CustomSection returns the payload of the first custom section called name.
func (m *Module) CustomSection(name string) ([]byte, bool) {
	if i := m.find(name); i >= 0 {
		return m.sections[i].Data, true
	}
	return nil, false
}

// SetCustomSection replaces the payload of the first custom section called
// name, or appends a new custom section at the end of the module.
func (m *Module) SetCustomSection(name string, data []byte) {
	if i := m.find(name); i >= 0 {
		m.sections[i].Data = data
		Logger().Debug("replaced custom section", zap.String("section", name), zap.Int("size", len(data)))
		return
	}
	m.sections = append(m.sections, Section{ID: SectionCustom, Name: name, Data: data})
	Logger().Debug("appended custom section", zap.String("section", name), zap.Int("size", len(data)))
}

// SetSection encodes s and stores it. An existing section of the same name
// is replaced in place. A new name, producers or daku section is inserted
// ahead of any of those sections that must follow it, so a well-ordered
// module stays well-ordered; other sections are appended.
func (m *Module) SetSection(s section.Section) error {
	o, err := section.ToOpaque(s)
	if err != nil {
		return err
	}
	if m.find(o.Name) >= 0 {
		m.SetCustomSection(o.Name, o.Data)
		return nil
	}

	at := len(m.sections)
	if order := section.Order(o.Name); order >= 0 {
		for i, sec := range m.sections {
			if sec.IsCustom() && section.Order(sec.Name) > order {
				at = i
				break
			}
		}
	}
	m.sections = slices.Insert(m.sections, at, Section{ID: SectionCustom, Name: o.Name, Data: o.Data})
	Logger().Debug("inserted custom section", zap.String("section", o.Name), zap.Int("index", at))
	return nil
}

// ClearCustomSection removes every custom section called name and reports
// whether any was present.
func (m *Module) ClearCustomSection(name string) bool {
	n := len(m.sections)
	m.sections = slices.DeleteFunc(m.sections, func(sec Section) bool {
		return sec.IsCustom() && sec.Name == name
	})
	return len(m.sections) != n
}

func (m *Module) find(name string) int {
	return slices.IndexFunc(m.sections, func(sec Section) bool {
		return sec.IsCustom() && sec.Name == name
	})
}
