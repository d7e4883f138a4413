package module

import (
	"context"
	"maps"
	"slices"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/nucleide/errors"
)

// Report is what a WebAssembly runtime sees when it compiles a module.
type Report struct {
	// ModuleName comes from the name section, empty when absent.
	ModuleName string
	// Functions maps each exported function to its debug name, empty when
	// the name section does not name it.
	Functions map[string]string
	// CustomSections lists custom section names other than "name".
	CustomSections []string
}

// Verify compiles data with wazero and reports the names it decoded. It is
// used to check that a rewritten module is still accepted by a real
// runtime. Compilation failures are returned as invalid module errors.
func Verify(ctx context.Context, data []byte) (*Report, error) {
	cfg := wazero.NewRuntimeConfigInterpreter().WithCustomSections(true)
	r := wazero.NewRuntimeWithConfig(ctx, cfg)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, data)
	if err != nil {
		return nil, errors.InvalidModule(-1, "rejected by wazero", err)
	}
	defer compiled.Close(ctx)

	report := &Report{
		ModuleName: compiled.Name(),
		Functions:  make(map[string]string),
	}
	for export, def := range compiled.ExportedFunctions() {
		report.Functions[export] = def.Name()
	}
	for _, cs := range compiled.CustomSections() {
		report.CustomSections = append(report.CustomSections, cs.Name())
	}

	Logger().Debug("verified module",
		zap.String("module", report.ModuleName),
		zap.Strings("exports", slices.Sorted(maps.Keys(report.Functions))),
		zap.Strings("custom_sections", report.CustomSections))
	return report, nil
}
