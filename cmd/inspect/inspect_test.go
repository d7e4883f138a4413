package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/nucleide/daku"
	"github.com/wippyai/nucleide/internal/binary"
	"github.com/wippyai/nucleide/module"
	"github.com/wippyai/nucleide/name"
	"github.com/wippyai/nucleide/producers"
	"github.com/wippyai/nucleide/section"
)

// hello is a module exporting one empty function as "run".
var hello = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

func custom(sectionName string, payload []byte) []byte {
	body := binary.AppendUvarint(nil, uint64(len(sectionName)))
	body = append(body, sectionName...)
	body = append(body, payload...)
	out := []byte{module.SectionCustom}
	out = binary.AppendUvarint(out, uint64(len(body)))
	return append(out, body...)
}

func encoded(t *testing.T, s section.Section) []byte {
	t.Helper()
	o, err := section.ToOpaque(s)
	if err != nil {
		t.Fatalf("ToOpaque: %v", err)
	}
	return custom(o.Name, o.Data)
}

func testModule(t *testing.T) []byte {
	t.Helper()
	out := append([]byte{}, hello...)
	out = append(out, encoded(t, &name.Section{Subsections: []name.Subsection{
		name.ModuleName{Name: "hello"},
		name.FunctionNames(name.NameMap{0: "main"}),
		name.LocalNames(name.IndirectNameMap{0: {0: "x"}}),
	}})...)
	out = append(out, encoded(t, &producers.Section{Fields: []producers.Field{{
		Kind: producers.Language,
		List: []producers.VersionedSoftware{{Name: "Rust", Version: ""}},
	}}})...)
	out = append(out, encoded(t, &daku.Section{
		Portals: []daku.Portal{daku.PortalLog, daku.PortalFetch},
		Nucleide: []daku.Nucleide{
			daku.LocalizedNames{Names: daku.NameMap{0: "Hello"}},
			daku.ThemedIcons{Icons: []daku.File{{Path: "icon.svg", Data: []byte("<svg/>")}}},
			daku.Categories{Categories: []daku.Category{daku.CategoryGaming}},
			daku.Developer{Name: "Wippy"},
		},
	})...)
	out = append(out, custom(".debug_info", []byte{1, 2, 3})...)
	out = append(out, custom("sourceMappingURL", []byte("a.map"))...)
	return out
}

func TestReport(t *testing.T) {
	m, err := module.Parse(testModule(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var b strings.Builder
	r := &reporter{w: &b, st: newStyles(false)}
	r.module("hello.wasm", m)
	out := b.String()

	for _, want := range []string{
		"Module: hello.wasm",
		"9 sections, 5 custom",
		" - Module \"hello\"",
		" - Function\n   - 0: main",
		" - Local\n   - 0\n     - 0: x",
		"Producers\n - language\n   - Rust",
		" - Portals: Log, Fetch",
		" - Localized names\n   - 0: Hello",
		"   - icon.svg (6 bytes)",
		" - Categories: Gaming",
		" - Developer: Wippy",
		"Skipping DWARF debug section: .debug_info (3 bytes)",
		"Skipping unknown custom section: sourceMappingURL (5 bytes)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warning") {
		t.Errorf("well-ordered module reported a warning:\n%s", out)
	}
}

func TestReportMalformedAndMisordered(t *testing.T) {
	data := append([]byte{}, hello...)
	data = append(data, custom("daku", []byte{0x01, 0x00})...)
	data = append(data, custom("producers", []byte{0x01, 0x03, 'x', 'y', 'z', 0x00})...)

	m, err := module.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var b strings.Builder
	r := &reporter{w: &b, st: newStyles(false)}
	r.module("bad.wasm", m)
	out := b.String()

	for _, want := range []string{
		"Warning: ",
		"section_order",
		"Producers\n - malformed: ",
		"unknown_discriminant",
		" - Portals: Log",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestParsePortals(t *testing.T) {
	tests := []struct {
		in      string
		want    []daku.Portal
		wantErr bool
	}{
		{in: "Log,Fetch", want: []daku.Portal{daku.PortalLog, daku.PortalFetch}},
		{in: " log , prompt ", want: []daku.Portal{daku.PortalLog, daku.PortalPrompt}},
		{in: "", want: nil},
		{in: "Fetch,Log", wantErr: true},
		{in: "Log,Log", wantErr: true},
		{in: "Teleport", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := parsePortals(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got %v, want error", p.List())
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePortals: %v", err)
			}
			if diff := cmp.Diff(tt.want, p.List()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEditsKeepOtherContent(t *testing.T) {
	m, err := module.Parse(testModule(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	e := edits{portals: "Log,Prompt,Timer", processedBy: "nucleide@0.1.0"}
	if err := e.apply(m, section.DefaultOptions()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	secs, err := m.Sections()
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	var d *daku.Section
	var p *producers.Section
	for _, s := range secs {
		switch s := s.(type) {
		case *daku.Section:
			d = s
		case *producers.Section:
			p = s
		}
	}
	if d == nil || p == nil {
		t.Fatalf("sections lost: %v", secs)
	}

	if diff := cmp.Diff([]daku.Portal{daku.PortalLog, daku.PortalPrompt, daku.PortalTimer}, d.Portals); diff != "" {
		t.Errorf("portals (-want +got):\n%s", diff)
	}
	if got, ok := d.Lookup(daku.NucleideDeveloper).(daku.Developer); !ok || got.Name != "Wippy" {
		t.Errorf("nucleide data lost: %v", d.Nucleide)
	}
	want := producers.Field{
		Kind: producers.ProcessedBy,
		List: []producers.VersionedSoftware{{Name: "nucleide", Version: "0.1.0"}},
	}
	if got, _ := p.Lookup(producers.ProcessedBy); cmp.Diff(want, got) != "" {
		t.Errorf("processed-by: got %v", got)
	}
	if _, ok := p.Lookup(producers.Language); !ok {
		t.Error("language field lost")
	}
}

func TestEditsOnBareModule(t *testing.T) {
	m, err := module.Parse(hello)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e := edits{portals: "Fetch", processedBy: "tool"}
	if err := e.apply(m, section.DefaultOptions()); err != nil {
		t.Fatalf("apply: %v", err)
	}

	raw, err := m.CustomSections()
	if err != nil {
		t.Fatalf("CustomSections: %v", err)
	}
	var names []string
	for _, o := range raw {
		names = append(names, o.Name)
	}
	if diff := cmp.Diff([]string{"producers", "daku"}, names); diff != "" {
		t.Errorf("section order (-want +got):\n%s", diff)
	}

	if err := (edits{processedBy: "@1.0"}).apply(m, section.DefaultOptions()); err == nil {
		t.Error("empty producer name accepted")
	}
}

func TestRunWritesAndVerifies(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wasm")
	out := filepath.Join(dir, "out.wasm")
	if err := os.WriteFile(in, testModule(t), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config{
		file:   in,
		output: out,
		verify: true,
		edits:  edits{portals: "Log,Serve"},
	}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := module.Verify(context.Background(), data)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if rep.ModuleName != "hello" || rep.Functions["run"] != "main" {
		t.Errorf("wazero report: %+v", rep)
	}

	if err := run(context.Background(), config{file: in, edits: edits{portals: "Log"}}); err == nil {
		t.Error("edits without -o accepted")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInteractiveModel(t *testing.T) {
	m, err := module.Parse(testModule(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var model tea.Model = newInteractiveModel(config{file: "hello.wasm"}, m)

	im := model.(interactiveModel)
	if len(im.entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(im.entries))
	}
	if !strings.Contains(model.View(), "> name (") {
		t.Errorf("first section not selected:\n%s", model.View())
	}

	model, _ = model.Update(key("down"))
	model, _ = model.Update(key("down"))
	im = model.(interactiveModel)
	if im.selected != 2 || !strings.Contains(im.viewport.View(), "Portals: Log, Fetch") {
		t.Errorf("selected %d, detail:\n%s", im.selected, im.viewport.View())
	}

	model, _ = model.Update(key("up"))
	model, _ = model.Update(key("enter"))
	if im = model.(interactiveModel); im.state != stateDetail {
		t.Errorf("state: got %d, want detail", im.state)
	}
	model, _ = model.Update(key("esc"))
	if im = model.(interactiveModel); im.state != stateBrowse {
		t.Errorf("state: got %d, want browse", im.state)
	}

	model, _ = model.Update(key("w"))
	if im = model.(interactiveModel); im.err == nil {
		t.Error("write without output path should fail")
	}

	_, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestInteractivePortals(t *testing.T) {
	m, err := module.Parse(testModule(t))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var model tea.Model = newInteractiveModel(config{file: "hello.wasm"}, m)

	model, _ = model.Update(key("p"))
	im := model.(interactiveModel)
	if im.state != statePortals || im.input.Value() != "Log,Fetch" {
		t.Fatalf("state %d, input %q", im.state, im.input.Value())
	}

	im.input.SetValue("Log,Fetch,Timer")
	model, _ = im.Update(key("enter"))
	im = model.(interactiveModel)
	if im.err != nil {
		t.Fatalf("apply portals: %v", im.err)
	}
	if !im.dirty || !strings.Contains(im.View(), "(modified)") {
		t.Error("module not marked modified")
	}

	data, _ := m.CustomSection(daku.CustomSectionName)
	d, err := daku.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff([]daku.Portal{daku.PortalLog, daku.PortalFetch, daku.PortalTimer}, d.Portals); diff != "" {
		t.Errorf("portals (-want +got):\n%s", diff)
	}
}
