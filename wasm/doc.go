// Package wasm encodes WebAssembly 1.0 core modules.
//
// It covers the subset needed to emit small guests: function types, imports,
// functions, one memory, globals, exports and active data segments. There is
// no decoder; wazero compiles and validates what this package produces.
//
// # Building a module
//
//	m := &wasm.Module{}
//	log := m.ImportFunc("env", "log", wasm.FuncType{Params: []wasm.ValType{wasm.ValI32}})
//	m.AddMemory(1, nil)
//	m.ExportMemory("memory", 0)
//
//	c := wasm.NewCode()
//	c.I32Const(42).Call(log).End()
//	run := m.AddFunc(wasm.FuncType{}, nil, c)
//	m.ExportFunc("run", run)
//
//	bin := m.Encode()
//
// Imported functions take the lowest function indices, so all imports must be
// added before the first AddFunc; ImportFunc panics otherwise. Validate
// checks every index the module refers to.
//
// # Code
//
// Code is a fluent emitter for function bodies and constant expressions.
// Immediates are LEB128 encoded; memory instructions take an alignment
// exponent and an offset.
package wasm
