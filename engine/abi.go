package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-doom/errors"
)

// Guest export names.
const (
	ExportCreate       = "doomgeneric_Create"
	ExportTick         = "doomgeneric_Tick"
	ExportMemory       = "memory"
	ExportMalloc       = "malloc"
	ExportCabiRealloc  = "cabi_realloc"
	ExportScreenBuffer = "DG_ScreenBuffer"
	ExportResX         = "DG_ResX"
	ExportResY         = "DG_ResY"
	ExportInitialize   = "_initialize"
)

// Host import names, all in module ModuleEnv.
const (
	ModuleEnv  = "env"
	ModuleWASI = "wasi_snapshot_preview1"

	ImportInit           = "DG_Init"
	ImportDrawFrame      = "DG_DrawFrame"
	ImportSleepMs        = "DG_SleepMs"
	ImportGetTicksMs     = "DG_GetTicksMs"
	ImportGetKey         = "DG_GetKey"
	ImportSetWindowTitle = "DG_SetWindowTitle"
)

// abiText declares the doomgeneric boundary. Pointers are u32 offsets into
// guest linear memory.
const abiText = `
import DG_Init: func();
import DG_DrawFrame: func();
import DG_SleepMs: func(ms: u32);
import DG_GetTicksMs: func() -> u32;
import DG_GetKey: func(pressed: u32, key: u32) -> s32;
import DG_SetWindowTitle: func(title: u32);

export doomgeneric_Create: func(argc: s32, argv: u32);
export doomgeneric_Tick: func();
export malloc: func(size: u32) -> u32;
export cabi_realloc: func(old: u32, old-size: u32, align: u32, new-size: u32) -> u32;
`

// Signature is one ABI function with its WIT types and the core types they
// lower to.
type Signature struct {
	Name        string
	Import      bool
	Params      []wit.Type
	Results     []wit.Type
	CoreParams  []api.ValueType
	CoreResults []api.ValueType
}

// String renders the core signature, e.g. "(i32, i32) -> (i32)".
func (s *Signature) String() string {
	return formatCore(s.CoreParams, s.CoreResults)
}

// Matches reports whether a guest function definition has this core signature.
func (s *Signature) Matches(def api.FunctionDefinition) bool {
	return equalTypes(s.CoreParams, def.ParamTypes()) && equalTypes(s.CoreResults, def.ResultTypes())
}

// ABI is the parsed doomgeneric boundary.
type ABI struct {
	Imports map[string]*Signature
	Exports map[string]*Signature
}

// Import returns the signature of a host import.
func (a *ABI) Import(name string) *Signature {
	return a.Imports[name]
}

// Export returns the signature of a guest export.
func (a *ABI) Export(name string) *Signature {
	return a.Exports[name]
}

// ImportNames returns the host import names in sorted order.
func (a *ABI) ImportNames() []string {
	names := make([]string, 0, len(a.Imports))
	for n := range a.Imports {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var abiFuncPattern = regexp.MustCompile(`(import|export)\s+([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)

// ParseABI parses an ABI table written as WIT-typed function lines.
func ParseABI(text string) (*ABI, error) {
	abi := &ABI{
		Imports: make(map[string]*Signature),
		Exports: make(map[string]*Signature),
	}

	for _, match := range abiFuncPattern.FindAllStringSubmatch(text, -1) {
		sig := &Signature{Name: match[2], Import: match[1] == "import"}
		if abi.Imports[sig.Name] != nil || abi.Exports[sig.Name] != nil {
			return nil, errors.InvalidData(errors.PhaseLink, []string{match[1], sig.Name}, "function declared twice")
		}

		if params := strings.TrimSpace(match[3]); params != "" {
			for _, p := range strings.Split(params, ",") {
				typStr := p
				if idx := strings.LastIndex(p, ":"); idx != -1 {
					typStr = p[idx+1:]
				}
				t, err := parseCoreWitType(typStr)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseLink, errors.KindInvalidData, err, "parse param type of "+sig.Name)
				}
				sig.Params = append(sig.Params, t.wit)
				sig.CoreParams = append(sig.CoreParams, t.core)
			}
		}

		if result := strings.TrimSpace(match[4]); result != "" && result != "()" {
			t, err := parseCoreWitType(result)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseLink, errors.KindInvalidData, err, "parse result type of "+sig.Name)
			}
			sig.Results = []wit.Type{t.wit}
			sig.CoreResults = []api.ValueType{t.core}
		}

		if sig.Import {
			abi.Imports[sig.Name] = sig
		} else {
			abi.Exports[sig.Name] = sig
		}
	}

	if len(abi.Imports)+len(abi.Exports) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLink, "no functions found in ABI text")
	}
	return abi, nil
}

var doomABI = mustParseABI(abiText)

// DoomABI returns the parsed doomgeneric ABI.
func DoomABI() *ABI {
	return doomABI
}

func mustParseABI(text string) *ABI {
	abi, err := ParseABI(text)
	if err != nil {
		panic(err)
	}
	return abi
}

type coreWitType struct {
	wit  wit.Type
	core api.ValueType
}

func parseCoreWitType(s string) (coreWitType, error) {
	t, err := wit.ParseType(strings.TrimSpace(s))
	if err != nil {
		return coreWitType{}, err
	}
	core, err := coreType(t)
	if err != nil {
		return coreWitType{}, err
	}
	return coreWitType{wit: t, core: core}, nil
}

// coreType lowers a scalar WIT type to its core value type. The boundary
// only carries scalars.
func coreType(t wit.Type) (api.ValueType, error) {
	switch t.(type) {
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.Char:
		return api.ValueTypeI32, nil
	case wit.U64, wit.S64:
		return api.ValueTypeI64, nil
	case wit.F32:
		return api.ValueTypeF32, nil
	case wit.F64:
		return api.ValueTypeF64, nil
	default:
		return 0, fmt.Errorf("type %T has no single core representation", t)
	}
}

// CheckExports validates guest exports against the ABI. The entry points and
// memory are required; one of malloc or cabi_realloc must be present.
func CheckExports(abi *ABI, exports map[string]api.FunctionDefinition, hasMemory bool) error {
	for _, name := range []string{ExportCreate, ExportTick} {
		if err := checkExport(abi, exports, name); err != nil {
			return err
		}
	}
	if !hasMemory {
		return errors.MissingExport(ExportMemory)
	}

	_, hasMalloc := exports[ExportMalloc]
	_, hasRealloc := exports[ExportCabiRealloc]
	switch {
	case hasMalloc:
		return checkExport(abi, exports, ExportMalloc)
	case hasRealloc:
		return checkExport(abi, exports, ExportCabiRealloc)
	default:
		return errors.New(errors.PhaseLink, errors.KindMissingExport).
			Symbol(ExportMalloc).
			Detail("guest exports neither %s nor %s", ExportMalloc, ExportCabiRealloc).
			Build()
	}
}

func checkExport(abi *ABI, exports map[string]api.FunctionDefinition, name string) error {
	def, ok := exports[name]
	if !ok {
		return errors.MissingExport(name)
	}
	sig := abi.Export(name)
	if !sig.Matches(def) {
		return errors.SignatureMismatch(name, sig.String(), formatCore(def.ParamTypes(), def.ResultTypes()))
	}
	return nil
}

// CheckImports validates the guest's function imports. env imports must be
// ABI functions with matching signatures; any other module except WASI is
// unresolved.
func CheckImports(abi *ABI, imports []api.FunctionDefinition) error {
	var unresolved []string
	for _, def := range imports {
		module, name, _ := def.Import()
		switch module {
		case ModuleWASI:
			continue
		case ModuleEnv:
			sig := abi.Import(name)
			if sig == nil {
				unresolved = append(unresolved, importKey(module, name))
				continue
			}
			if !sig.Matches(def) {
				return errors.New(errors.PhaseLink, errors.KindSignature).
					Path(module).
					Symbol(name).
					Detail("want %s, got %s", sig.String(), formatCore(def.ParamTypes(), def.ResultTypes())).
					Build()
			}
		default:
			unresolved = append(unresolved, importKey(module, name))
		}
	}
	if len(unresolved) > 0 {
		return errors.NewUnresolvedImportsError(unresolved)
	}
	return nil
}

func importKey(module, name string) string {
	return module + "#" + name
}

func equalTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatCore(params, results []api.ValueType) string {
	var b strings.Builder
	b.WriteString("(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(p))
	}
	b.WriteString(") -> (")
	for i, r := range results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(r))
	}
	b.WriteString(")")
	return b.String()
}
