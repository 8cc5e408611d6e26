package wasm

import (
	"errors"
	"fmt"
)

// ErrInvalidModule is wrapped by every Validate failure.
var ErrInvalidModule = errors.New("invalid module")

// Validate checks the structural consistency of the module: index spaces,
// function/code pairing and unique export names. It does not type-check code.
func (m *Module) Validate() error {
	if len(m.Funcs) != len(m.Code) {
		return fmt.Errorf("%w: %d functions declared, %d bodies", ErrInvalidModule, len(m.Funcs), len(m.Code))
	}

	var importedFuncs, importedMems uint32
	for i, imp := range m.Imports {
		switch imp.Desc.Kind {
		case KindFunc:
			if imp.Desc.TypeIdx >= uint32(len(m.Types)) {
				return fmt.Errorf("%w: import %d (%s.%s) type index %d out of range", ErrInvalidModule, i, imp.Module, imp.Name, imp.Desc.TypeIdx)
			}
			importedFuncs++
		case KindMemory:
			if imp.Desc.Memory == nil {
				return fmt.Errorf("%w: import %d (%s.%s) has no memory type", ErrInvalidModule, i, imp.Module, imp.Name)
			}
			importedMems++
		default:
			return fmt.Errorf("%w: import %d has unsupported kind %d", ErrInvalidModule, i, imp.Desc.Kind)
		}
	}

	for i, typeIdx := range m.Funcs {
		if typeIdx >= uint32(len(m.Types)) {
			return fmt.Errorf("%w: function %d type index %d out of range", ErrInvalidModule, i, typeIdx)
		}
	}

	numFuncs := importedFuncs + uint32(len(m.Funcs))
	numMems := importedMems + uint32(len(m.Memories))
	if numMems > 1 {
		return fmt.Errorf("%w: %d memories, at most 1 supported", ErrInvalidModule, numMems)
	}
	for _, mem := range m.Memories {
		if mem.Limits.Max != nil && *mem.Limits.Max < mem.Limits.Min {
			return fmt.Errorf("%w: memory max %d below min %d", ErrInvalidModule, *mem.Limits.Max, mem.Limits.Min)
		}
	}
	if len(m.Data) > 0 && numMems == 0 {
		return fmt.Errorf("%w: data segments without memory", ErrInvalidModule)
	}

	seen := make(map[string]bool, len(m.Exports))
	for _, exp := range m.Exports {
		if seen[exp.Name] {
			return fmt.Errorf("%w: duplicate export %q", ErrInvalidModule, exp.Name)
		}
		seen[exp.Name] = true

		var limit uint32
		switch exp.Kind {
		case KindFunc:
			limit = numFuncs
		case KindMemory:
			limit = numMems
		case KindGlobal:
			limit = uint32(len(m.Globals))
		default:
			return fmt.Errorf("%w: export %q has unsupported kind %d", ErrInvalidModule, exp.Name, exp.Kind)
		}
		if exp.Idx >= limit {
			return fmt.Errorf("%w: export %q index %d out of range", ErrInvalidModule, exp.Name, exp.Idx)
		}
	}

	if m.Start != nil && *m.Start >= numFuncs {
		return fmt.Errorf("%w: start function %d out of range", ErrInvalidModule, *m.Start)
	}
	return nil
}
