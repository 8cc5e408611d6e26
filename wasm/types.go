package wasm

import "slices"

// Module is a WebAssembly core module under construction.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // type index per defined function
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32
	Code     []FuncBody
	Data     []DataSegment

	CustomSections []CustomSection
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports whether two signatures are identical.
func (ft FuncType) Equal(other FuncType) bool {
	return slices.Equal(ft.Params, other.Params) && slices.Equal(ft.Results, other.Results)
}

// ValType is a numeric value type byte.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	default:
		return "unknown"
	}
}

// Import names one item the module needs from its host.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc is a function type index or a memory, selected by Kind.
type ImportDesc struct {
	Memory  *MemoryType
	TypeIdx uint32
	Kind    byte
}

// MemoryType describes a linear memory in pages.
type MemoryType struct {
	Limits Limits
}

// Limits bounds a memory; a nil Max leaves it unbounded.
type Limits struct {
	Max *uint32
	Min uint32
}

// GlobalType pairs a value type with its mutability flag.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global is a module global and its init expression.
type Global struct {
	Type GlobalType
	Init []byte // const expr, terminated by OpEnd
}

// Export publishes the definition at Idx under Name.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// FuncBody is one entry of the code section.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte // terminated by OpEnd
}

// LocalEntry declares Count locals of one type.
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// DataSegment is an active data segment for memory 0.
type DataSegment struct {
	Offset []byte // const expr, terminated by OpEnd
	Init   []byte
}

// CustomSection is emitted after all known sections.
type CustomSection struct {
	Name string
	Data []byte
}
