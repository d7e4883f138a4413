package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/nucleide/daku"
	"github.com/wippyai/nucleide/module"
	"github.com/wippyai/nucleide/producers"
	"github.com/wippyai/nucleide/section"
)

// edits are the section rewrites requested on the command line.
type edits struct {
	portals     string
	processedBy string
}

func (e edits) empty() bool {
	return e.portals == "" && e.processedBy == ""
}

// apply rewrites the daku and producers sections of m. Existing sections
// must decode; their other contents are kept.
func (e edits) apply(m *module.Module, opts section.Options) error {
	if e.portals != "" {
		if err := setPortals(m, e.portals, opts); err != nil {
			return err
		}
	}
	if e.processedBy != "" {
		if err := addProcessedBy(m, e.processedBy, opts); err != nil {
			return err
		}
	}
	return nil
}

// parsePortals parses a comma-separated portal list such as "Log,Fetch".
// Names are case-insensitive and must be given in ascending portal order.
func parsePortals(list string) (*daku.Portals, error) {
	p := &daku.Portals{}
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		portal, ok := daku.ParsePortal(s)
		if !ok {
			return nil, fmt.Errorf("unknown portal %q", s)
		}
		if err := p.Append(portal); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func setPortals(m *module.Module, list string, opts section.Options) error {
	p, err := parsePortals(list)
	if err != nil {
		return err
	}

	sec := &daku.Section{}
	if data, ok := m.CustomSection(daku.CustomSectionName); ok {
		if sec, err = daku.DecodeWithOptions(data, opts); err != nil {
			return fmt.Errorf("existing daku section: %w", err)
		}
	}
	sec.Portals = p.List()
	return m.SetSection(sec)
}

func addProcessedBy(m *module.Module, tool string, opts section.Options) error {
	toolName, version, _ := strings.Cut(tool, "@")
	if toolName == "" {
		return fmt.Errorf("invalid producer %q, want name@version", tool)
	}

	sec := &producers.Section{}
	if data, ok := m.CustomSection(producers.CustomSectionName); ok {
		var err error
		if sec, err = producers.DecodeWithOptions(data, opts); err != nil {
			return fmt.Errorf("existing producers section: %w", err)
		}
	}
	sec.Add(producers.ProcessedBy, toolName, version)
	return m.SetSection(sec)
}
