package wasm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var i32 = []ValType{ValI32}

func TestEncode_Header(t *testing.T) {
	got := (&Module{}).Encode()
	want := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("empty module = % x, want % x", got, want)
	}
}

func TestEncode_TypeSection(t *testing.T) {
	m := &Module{}
	m.AddType(FuncType{Params: []ValType{ValI32, ValI64}, Results: i32})

	got := m.Encode()[8:]
	want := []byte{
		SectionType, 0x07, // id, size
		0x01,                           // one type
		FuncTypeByte, 0x02, 0x7f, 0x7e, // params
		0x01, 0x7f, // results
	}
	if !bytes.Equal(got, want) {
		t.Errorf("type section = % x, want % x", got, want)
	}
}

func TestModule_AddTypeDedup(t *testing.T) {
	m := &Module{}
	a := m.AddType(FuncType{Params: i32})
	b := m.AddType(FuncType{Results: i32})
	c := m.AddType(FuncType{Params: i32})
	if a != c || a == b || len(m.Types) != 2 {
		t.Errorf("indices %d %d %d, types %d", a, b, c, len(m.Types))
	}
}

func TestModule_FunctionIndexSpace(t *testing.T) {
	m := &Module{}
	imp0 := m.ImportFunc("env", "a", FuncType{})
	imp1 := m.ImportFunc("env", "b", FuncType{Params: i32})
	f := m.AddFunc(FuncType{}, nil, NewCode().End())

	if imp0 != 0 || imp1 != 1 || f != 2 {
		t.Errorf("indices = %d %d %d, want 0 1 2", imp0, imp1, f)
	}

	defer func() {
		if recover() == nil {
			t.Error("import after AddFunc should panic")
		}
	}()
	m.ImportFunc("env", "late", FuncType{})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Module
		ok    bool
	}{
		{
			name: "valid",
			build: func() *Module {
				m := &Module{}
				m.AddMemory(1, nil)
				m.ExportMemory("memory", 0)
				m.ExportFunc("f", m.AddFunc(FuncType{}, nil, NewCode().End()))
				return m
			},
			ok: true,
		},
		{
			name: "export out of range",
			build: func() *Module {
				m := &Module{}
				m.ExportFunc("f", 3)
				return m
			},
		},
		{
			name: "duplicate export",
			build: func() *Module {
				m := &Module{}
				g := m.AddGlobalI32(1, false)
				m.ExportGlobal("g", g)
				m.ExportGlobal("g", g)
				return m
			},
		},
		{
			name: "data without memory",
			build: func() *Module {
				m := &Module{}
				m.AddData(0, []byte("x"))
				return m
			},
		},
		{
			name: "body count mismatch",
			build: func() *Module {
				m := &Module{}
				m.Funcs = append(m.Funcs, m.AddType(FuncType{}))
				return m
			},
		},
		{
			name: "max below min",
			build: func() *Module {
				m := &Module{}
				max := uint32(1)
				m.AddMemory(2, &max)
				return m
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidModule) {
				t.Fatalf("Validate = %v, want ErrInvalidModule", err)
			}
		})
	}
}

// TestEncode_Runs compiles an encoded module with wazero and calls it.
func TestEncode_Runs(t *testing.T) {
	ctx := context.Background()

	m := &Module{}
	var logged []uint32
	logIdx := m.ImportFunc("env", "log", FuncType{Params: i32})
	m.AddMemory(1, nil)
	m.ExportMemory("memory", 0)
	m.AddData(16, []byte("hi\x00"))
	counter := m.AddGlobalI32(0, true)
	m.ExportGlobal("counter", counter)

	// sum(n) adds 1..n in a loop, logs the result and bumps the counter.
	c := NewCode()
	c.Block().Loop().
		LocalGet(0).I32Eqz().BrIf(1).
		LocalGet(1).LocalGet(0).I32Add().LocalSet(1).
		LocalGet(0).I32Const(1).I32Sub().LocalSet(0).
		Br(0).
		End().End()
	c.LocalGet(1).Call(logIdx)
	c.GlobalGet(counter).I32Const(1).I32Add().GlobalSet(counter)
	c.I32Const(0).LocalGet(1).I32Store(32)
	c.LocalGet(1).End()
	sum := m.AddFunc(FuncType{Params: i32, Results: i32}, []LocalEntry{{Count: 1, ValType: ValI32}}, c)
	m.ExportFunc("sum", sum)

	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	_, err := r.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(v uint32) { logged = append(logged, v) }).
		Export("log").
		Instantiate(ctx)
	if err != nil {
		t.Fatal(err)
	}

	mod, err := r.Instantiate(ctx, m.Encode())
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}

	res, err := mod.ExportedFunction("sum").Call(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if api.DecodeU32(res[0]) != 55 {
		t.Errorf("sum(10) = %d, want 55", res[0])
	}
	if len(logged) != 1 || logged[0] != 55 {
		t.Errorf("logged = %v", logged)
	}
	if got := mod.ExportedGlobal("counter").Get(); got != 1 {
		t.Errorf("counter = %d, want 1", got)
	}
	if v, _ := mod.Memory().ReadUint32Le(32); v != 55 {
		t.Errorf("memory[32] = %d, want 55", v)
	}
	if b, _ := mod.Memory().Read(16, 3); string(b) != "hi\x00" {
		t.Errorf("data segment = %q", b)
	}
}
