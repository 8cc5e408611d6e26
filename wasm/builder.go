package wasm

// AddType returns the index of ft in the type section, adding it if absent.
func (m *Module) AddType(ft FuncType) uint32 {
	for i, t := range m.Types {
		if t.Equal(ft) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, ft)
	return uint32(len(m.Types) - 1)
}

// NumImportedFuncs returns the number of imported functions.
func (m *Module) NumImportedFuncs() uint32 {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindFunc {
			n++
		}
	}
	return n
}

// ImportFunc adds a function import and returns its function index.
func (m *Module) ImportFunc(module, name string, ft FuncType) uint32 {
	if len(m.Funcs) > 0 {
		panic("wasm: function import added after a defined function")
	}
	idx := m.NumImportedFuncs()
	m.Imports = append(m.Imports, Import{
		Module: module,
		Name:   name,
		Desc:   ImportDesc{Kind: KindFunc, TypeIdx: m.AddType(ft)},
	})
	return idx
}

// AddFunc declares a function with the given locals and body and returns
// its function index.
func (m *Module) AddFunc(ft FuncType, locals []LocalEntry, body *Code) uint32 {
	m.Funcs = append(m.Funcs, m.AddType(ft))
	m.Code = append(m.Code, FuncBody{Locals: locals, Code: body.Bytes()})
	return m.NumImportedFuncs() + uint32(len(m.Funcs)-1)
}

// AddMemory declares a memory of min pages and an optional maximum, and
// returns its index.
func (m *Module) AddMemory(min uint32, max *uint32) uint32 {
	m.Memories = append(m.Memories, MemoryType{Limits: Limits{Min: min, Max: max}})
	return uint32(len(m.Memories) - 1)
}

// AddGlobalI32 declares an i32 global initialised to v and returns its index.
func (m *Module) AddGlobalI32(v int32, mutable bool) uint32 {
	m.Globals = append(m.Globals, Global{
		Type: GlobalType{ValType: ValI32, Mutable: mutable},
		Init: NewCode().I32Const(v).End().Bytes(),
	})
	return uint32(len(m.Globals) - 1)
}

// AddData places init at a fixed offset in memory 0.
func (m *Module) AddData(offset uint32, init []byte) {
	m.Data = append(m.Data, DataSegment{
		Offset: NewCode().I32Const(int32(offset)).End().Bytes(),
		Init:   init,
	})
}

// ExportFunc exports function idx as name.
func (m *Module) ExportFunc(name string, idx uint32) {
	m.Exports = append(m.Exports, Export{Name: name, Kind: KindFunc, Idx: idx})
}

// ExportMemory exports memory idx as name.
func (m *Module) ExportMemory(name string, idx uint32) {
	m.Exports = append(m.Exports, Export{Name: name, Kind: KindMemory, Idx: idx})
}

// ExportGlobal exports global idx as name.
func (m *Module) ExportGlobal(name string, idx uint32) {
	m.Exports = append(m.Exports, Export{Name: name, Kind: KindGlobal, Idx: idx})
}
