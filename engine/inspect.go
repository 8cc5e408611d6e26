package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-doom/errors"
)

// FuncInfo describes one imported or exported guest function.
type FuncInfo struct {
	Module    string
	Name      string
	Signature string
}

// Report is the result of inspecting a guest binary without running it.
type Report struct {
	Imports   []FuncInfo
	Exports   []FuncInfo
	Memories  []string
	ImportErr error
	ExportErr error
}

// OK reports whether the guest satisfies the ABI.
func (r *Report) OK() bool {
	return r.ImportErr == nil && r.ExportErr == nil
}

// Inspect compiles wasm and checks it against the doomgeneric ABI. Compile
// failures are returned as errors; ABI problems are recorded in the report.
func Inspect(ctx context.Context, wasm []byte) (*Report, error) {
	if len(wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no guest module")
	}

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile guest", err)
	}

	report := &Report{}
	imports := compiled.ImportedFunctions()
	for _, def := range imports {
		module, name, _ := def.Import()
		report.Imports = append(report.Imports, funcInfo(module, name, def))
	}

	exports := compiled.ExportedFunctions()
	for name, def := range exports {
		report.Exports = append(report.Exports, funcInfo("", name, def))
	}
	sort.Slice(report.Exports, func(i, j int) bool {
		return report.Exports[i].Name < report.Exports[j].Name
	})

	memories := compiled.ExportedMemories()
	for name := range memories {
		report.Memories = append(report.Memories, name)
	}
	sort.Strings(report.Memories)

	abi := DoomABI()
	report.ImportErr = CheckImports(abi, imports)
	_, hasMemory := memories[ExportMemory]
	report.ExportErr = CheckExports(abi, exports, hasMemory)
	return report, nil
}

func funcInfo(module, name string, def api.FunctionDefinition) FuncInfo {
	return FuncInfo{
		Module:    module,
		Name:      name,
		Signature: formatCore(def.ParamTypes(), def.ResultTypes()),
	}
}
