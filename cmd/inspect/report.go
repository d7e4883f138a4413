package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/nucleide/daku"
	"github.com/wippyai/nucleide/module"
	"github.com/wippyai/nucleide/name"
	"github.com/wippyai/nucleide/producers"
	"github.com/wippyai/nucleide/section"
)

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	key     lipgloss.Style
	value   lipgloss.Style
	dim     lipgloss.Style
	err     lipgloss.Style
}

// newStyles returns the report styles. Without color every style renders
// text unchanged.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB")),
		key: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90")),
		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
	}
}

type reporter struct {
	w    io.Writer
	st   styles
	opts section.Options
}

func (r *reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// module prints every custom section of m. A misordered module is reported
// but its sections are still listed.
func (r *reporter) module(file string, m *module.Module) {
	r.printf("%s\n", r.st.title.Render("Module: "+file))

	var customs, others int
	for _, sec := range m.AllSections() {
		if sec.IsCustom() {
			customs++
		} else {
			others++
		}
	}
	r.printf("%s\n\n", r.st.dim.Render(fmt.Sprintf("%d sections, %d custom", others+customs, customs)))

	if _, err := m.CustomSections(); err != nil {
		r.printf("%s\n\n", r.st.err.Render("Warning: "+err.Error()))
	}

	for _, sec := range m.AllSections() {
		if sec.IsCustom() {
			r.section(sec.Name, sec.Data)
		}
	}
}

// section prints one custom section.
func (r *reporter) section(sectionName string, data []byte) {
	if strings.HasPrefix(sectionName, ".debug_") {
		r.printf("%s\n", r.st.dim.Render(fmt.Sprintf("Skipping DWARF debug section: %s (%d bytes)", sectionName, len(data))))
		return
	}

	s, err := section.Decode(sectionName, data, r.opts)
	if err != nil {
		r.printf("%s\n", r.st.heading.Render(sectionTitle(sectionName)))
		r.printf(" - %s\n", r.st.err.Render("malformed: "+err.Error()))
		return
	}

	switch s := s.(type) {
	case *name.Section:
		r.name(s)
	case *producers.Section:
		r.producers(s)
	case *daku.Section:
		r.daku(s)
	default:
		r.printf("%s\n", r.st.dim.Render(fmt.Sprintf("Skipping unknown custom section: %s (%d bytes)", sectionName, len(data))))
	}
}

func sectionTitle(sectionName string) string {
	switch sectionName {
	case name.CustomSectionName:
		return "Name"
	case producers.CustomSectionName:
		return "Producers"
	case daku.CustomSectionName:
		return "Daku"
	}
	return sectionName
}

func (r *reporter) name(s *name.Section) {
	r.printf("%s\n", r.st.heading.Render("Name"))
	if len(s.Subsections) == 0 {
		r.printf(" %s\n", r.st.dim.Render("(empty)"))
	}
	for _, sub := range s.Subsections {
		switch sub := sub.(type) {
		case name.ModuleName:
			r.printf(" - Module %s\n", r.st.value.Render(fmt.Sprintf("%q", sub.Name)))
		case name.Names:
			r.printf(" - %s\n", title(sub.Kind.String()))
			r.nameMap("   ", sub.Names)
		case name.IndirectNames:
			r.printf(" - %s\n", title(sub.Kind.String()))
			for _, outer := range sub.Names.Keys() {
				r.printf("   - %s\n", r.st.key.Render(fmt.Sprint(outer)))
				r.nameMap("     ", sub.Names[outer])
			}
		}
	}
}

func (r *reporter) nameMap(indent string, m name.NameMap) {
	for _, idx := range m.Keys() {
		r.printf("%s- %s: %s\n", indent, r.st.key.Render(fmt.Sprint(idx)), m[idx])
	}
}

func (r *reporter) producers(s *producers.Section) {
	r.printf("%s\n", r.st.heading.Render("Producers"))
	for _, f := range s.Fields {
		r.printf(" - %s\n", f.Kind)
		for _, sw := range f.List {
			r.printf("   - %s %s\n", r.st.key.Render(sw.Name), r.st.value.Render(sw.Version))
		}
	}
}

func (r *reporter) daku(s *daku.Section) {
	r.printf("%s\n", r.st.heading.Render("Daku"))

	portals := make([]string, len(s.Portals))
	for i, p := range s.Portals {
		portals[i] = p.String()
	}
	if len(portals) == 0 {
		r.printf(" - Portals: %s\n", r.st.dim.Render("(none)"))
	} else {
		r.printf(" - Portals: %s\n", r.st.value.Render(strings.Join(portals, ", ")))
	}

	for _, n := range s.Nucleide {
		switch n := n.(type) {
		case daku.LocalizedNames:
			r.printf(" - Localized names\n")
			r.nameMap("   ", n.Names)
		case daku.LocalizedDescriptions:
			r.printf(" - Localized descriptions\n")
			r.nameMap("   ", n.Descriptions)
		case daku.ThemedIcons:
			r.printf(" - Themed icons\n")
			r.files("   ", n.Icons)
		case daku.LocalizedAssets:
			r.printf(" - Localized assets\n")
			for _, locale := range slices.Sorted(maps.Keys(n.Assets)) {
				r.printf("   - %s\n", r.st.key.Render(fmt.Sprint(locale)))
				r.files("     ", n.Assets[locale])
			}
		case daku.Tags:
			r.printf(" - Tags: %s\n", r.st.value.Render(strings.Join(n.Tags, ", ")))
		case daku.Categories:
			cats := make([]string, len(n.Categories))
			for i, c := range n.Categories {
				cats[i] = c.String()
			}
			r.printf(" - Categories: %s\n", r.st.value.Render(strings.Join(cats, ", ")))
		case daku.Developer:
			r.printf(" - Developer: %s\n", r.st.value.Render(n.Name))
		}
	}
}

func (r *reporter) files(indent string, files []daku.File) {
	for _, f := range files {
		r.printf("%s- %s %s\n", indent, r.st.key.Render(f.Path), r.st.dim.Render(fmt.Sprintf("(%d bytes)", len(f.Data))))
	}
}

func (r *reporter) verified(rep *module.Report) {
	r.printf("%s\n", r.st.heading.Render("Verified by wazero"))
	if rep.ModuleName != "" {
		r.printf(" - Module %s\n", r.st.value.Render(fmt.Sprintf("%q", rep.ModuleName)))
	}
	for _, export := range slices.Sorted(maps.Keys(rep.Functions)) {
		debug := rep.Functions[export]
		if debug == "" {
			debug = r.st.dim.Render("(unnamed)")
		}
		r.printf(" - Export %s -> %s\n", r.st.key.Render(export), debug)
	}
	if len(rep.CustomSections) > 0 {
		r.printf(" - Custom sections: %s\n", strings.Join(rep.CustomSections, ", "))
	}
}

// title upper-cases the first letter of a lowercase identifier.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
