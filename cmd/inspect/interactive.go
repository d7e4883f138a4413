package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/nucleide/daku"
	"github.com/wippyai/nucleide/module"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateDetail
	statePortals
)

type entry struct {
	name   string
	size   int
	detail string
}

type interactiveModel struct {
	err      error
	module   *module.Module
	cfg      config
	status   string
	entries  []entry
	viewport viewport.Model
	input    textinput.Model
	selected int
	state    modelState
	dirty    bool
}

func runInteractive(cfg config) error {
	data, err := os.ReadFile(cfg.file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	m, err := module.Parse(data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	p := tea.NewProgram(newInteractiveModel(cfg, m), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func newInteractiveModel(cfg config, m *module.Module) interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "Log,Fetch,..."
	ti.CharLimit = 256
	ti.Width = 60

	model := interactiveModel{
		module:   m,
		cfg:      cfg,
		viewport: viewport.New(80, 20),
		input:    ti,
	}
	model.refresh()
	return model
}

// refresh rebuilds the section list from the module.
func (m *interactiveModel) refresh() {
	m.entries = nil
	st := newStyles(m.cfg.color)
	for _, sec := range m.module.AllSections() {
		if !sec.IsCustom() {
			continue
		}
		var b strings.Builder
		r := &reporter{w: &b, st: st, opts: m.cfg.opts}
		r.section(sec.Name, sec.Data)
		m.entries = append(m.entries, entry{name: sec.Name, size: len(sec.Data), detail: b.String()})
	}

	if _, err := m.module.CustomSections(); err != nil {
		m.err = err
	}
	if m.selected >= len(m.entries) {
		m.selected = max(len(m.entries)-1, 0)
	}
	m.showSelected()
}

func (m *interactiveModel) showSelected() {
	if len(m.entries) == 0 {
		m.viewport.SetContent(helpStyle.Render("no custom sections"))
		return
	}
	m.viewport.SetContent(m.entries[m.selected].detail)
	m.viewport.GotoTop()
}

func (m interactiveModel) Init() tea.Cmd {
	return nil
}

func (m interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-len(m.entries)-7, 3)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateBrowse:
			return m.updateBrowse(msg)
		case stateDetail:
			return m.updateDetail(msg)
		case statePortals:
			return m.updatePortals(msg)
		}
	}
	return m, nil
}

func (m interactiveModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
			m.showSelected()
		}
	case "down", "j":
		if m.selected < len(m.entries)-1 {
			m.selected++
			m.showSelected()
		}
	case "enter", "tab":
		if len(m.entries) > 0 {
			m.state = stateDetail
		}
	case "p":
		m.input.SetValue(m.currentPortals())
		m.input.Focus()
		m.state = statePortals
		return m, textinput.Blink
	case "v":
		m.verify()
	case "w":
		m.write()
	}
	return m, nil
}

func (m interactiveModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "enter", "tab":
		m.state = stateBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m interactiveModel) updatePortals(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.Blur()
		m.state = stateBrowse
		return m, nil
	case "enter":
		m.input.Blur()
		m.state = stateBrowse
		if err := (edits{portals: m.input.Value()}).apply(m.module, m.cfg.opts); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.dirty = true
		m.status = "portals updated"
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// currentPortals returns the portal list of the daku section as accepted by
// the portal input.
func (m *interactiveModel) currentPortals() string {
	data, ok := m.module.CustomSection(daku.CustomSectionName)
	if !ok {
		return ""
	}
	sec, err := daku.DecodeWithOptions(data, m.cfg.opts)
	if err != nil {
		return ""
	}
	names := make([]string, len(sec.Portals))
	for i, p := range sec.Portals {
		names[i] = p.String()
	}
	return strings.Join(names, ",")
}

func (m *interactiveModel) verify() {
	rep, err := module.Verify(context.Background(), m.module.Encode())
	if err != nil {
		m.err = err
		return
	}
	var b strings.Builder
	r := &reporter{w: &b, st: newStyles(m.cfg.color), opts: m.cfg.opts}
	r.verified(rep)
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
	m.err = nil
	m.status = "verified"
}

func (m *interactiveModel) write() {
	if m.cfg.output == "" {
		m.err = fmt.Errorf("no output path, start with -o")
		return
	}
	if err := os.WriteFile(m.cfg.output, m.module.Encode(), 0o644); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.dirty = false
	m.status = "wrote " + m.cfg.output
}

func (m interactiveModel) View() string {
	var b strings.Builder

	title := "Module: " + m.cfg.file
	if m.dirty {
		title += " (modified)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, e := range m.entries {
		line := fmt.Sprintf("%s (%d bytes)", e.name, e.size)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + sectionStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString(detailStyle.Render(m.viewport.View()))
	b.WriteString("\n")

	if m.state == statePortals {
		b.WriteString("Portals: ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(resultStyle.Render(m.status))
		b.WriteString("\n")
	}

	switch m.state {
	case stateBrowse:
		b.WriteString(helpStyle.Render("↑/↓ select • enter details • p portals • v verify • w write • q quit"))
	case stateDetail:
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	case statePortals:
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	}

	return b.String()
}
