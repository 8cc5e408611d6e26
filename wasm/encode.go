package wasm

// Encode serializes the module. Sections with no entries are omitted and
// custom sections trail the known ones.
func (m *Module) Encode() []byte {
	var out sink
	out.le32(Magic)
	out.le32(Version)

	if len(m.Types) > 0 {
		var s sink
		s.vec(len(m.Types))
		for _, ft := range m.Types {
			s.put(FuncTypeByte)
			s.valTypes(ft.Params)
			s.valTypes(ft.Results)
		}
		out.section(SectionType, s)
	}

	if len(m.Imports) > 0 {
		var s sink
		s.vec(len(m.Imports))
		for _, imp := range m.Imports {
			s.name(imp.Module)
			s.name(imp.Name)
			s.put(imp.Desc.Kind)
			switch {
			case imp.Desc.Kind == KindFunc:
				s.u32(imp.Desc.TypeIdx)
			case imp.Desc.Kind == KindMemory && imp.Desc.Memory != nil:
				s.limits(imp.Desc.Memory.Limits)
			}
		}
		out.section(SectionImport, s)
	}

	if len(m.Funcs) > 0 {
		var s sink
		s.vec(len(m.Funcs))
		for _, idx := range m.Funcs {
			s.u32(idx)
		}
		out.section(SectionFunction, s)
	}

	if len(m.Memories) > 0 {
		var s sink
		s.vec(len(m.Memories))
		for _, mem := range m.Memories {
			s.limits(mem.Limits)
		}
		out.section(SectionMemory, s)
	}

	if len(m.Globals) > 0 {
		var s sink
		s.vec(len(m.Globals))
		for _, g := range m.Globals {
			s.put(byte(g.Type.ValType))
			s.flag(g.Type.Mutable)
			s.raw(g.Init)
		}
		out.section(SectionGlobal, s)
	}

	if len(m.Exports) > 0 {
		var s sink
		s.vec(len(m.Exports))
		for _, exp := range m.Exports {
			s.name(exp.Name)
			s.put(exp.Kind)
			s.u32(exp.Idx)
		}
		out.section(SectionExport, s)
	}

	if m.Start != nil {
		var s sink
		s.u32(*m.Start)
		out.section(SectionStart, s)
	}

	if len(m.Code) > 0 {
		var s sink
		s.vec(len(m.Code))
		for _, body := range m.Code {
			var fn sink
			fn.vec(len(body.Locals))
			for _, l := range body.Locals {
				fn.u32(l.Count)
				fn.put(byte(l.ValType))
			}
			fn.raw(body.Code)
			s.sized(fn)
		}
		out.section(SectionCode, s)
	}

	if len(m.Data) > 0 {
		var s sink
		s.vec(len(m.Data))
		for _, d := range m.Data {
			// active segment targeting memory 0
			s.u32(0)
			s.raw(d.Offset)
			s.sized(d.Init)
		}
		out.section(SectionData, s)
	}

	for _, cs := range m.CustomSections {
		var s sink
		s.name(cs.Name)
		s.raw(cs.Data)
		out.section(SectionCustom, s)
	}

	return out
}

func (s *sink) valTypes(types []ValType) {
	s.vec(len(types))
	for _, t := range types {
		s.put(byte(t))
	}
}

func (s *sink) limits(l Limits) {
	if l.Max == nil {
		s.put(LimitsNoMax)
		s.u32(l.Min)
		return
	}
	s.put(LimitsHasMax)
	s.u32(l.Min)
	s.u32(*l.Max)
}
