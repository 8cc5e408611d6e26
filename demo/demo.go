// Package demo generates a small guest that implements the doomgeneric ABI.
//
// The guest does what doomgeneric does at the boundary without the game:
// doomgeneric_Create keeps argc/argv, allocates the screen with malloc,
// calls DG_Init and sets the window title. Each doomgeneric_Tick reads the
// clock, drains DG_GetKey, paints a moving pattern tinted by the last
// pressed key, calls DG_DrawFrame and sleeps.
//
// It lets every host run, and the tests exercise the engine end to end,
// without a WAD or a C toolchain.
package demo

import (
	"github.com/wippyai/wasm-doom/wasm"
)

// Fixed guest memory layout.
const (
	KeyPressedPtr = 16   // DG_GetKey pressed out-param, i32
	KeyCodePtr    = 20   // DG_GetKey key out-param, u8
	LastKeyAddr   = 24   // last pressed key code, i32
	KeyCountAddr  = 28   // number of key events drained, i32
	TitleAddr     = 64   // NUL-terminated title
	ScreenVarAddr = 1024 // pixel_t *DG_ScreenBuffer
	ArgcAddr      = 1028 // argc passed to doomgeneric_Create
	ArgvAddr      = 1032 // argv passed to doomgeneric_Create
	FrameAddr     = 1036 // frames drawn, i32
	HeapBase      = 4096
)

// Options configures the generated guest.
type Options struct {
	Width   int
	Height  int
	Title   string
	SleepMs uint32
	// UseCabiRealloc exports cabi_realloc instead of malloc.
	UseCabiRealloc bool
}

// DefaultOptions is a 320x200 guest titled "wasm-doom demo".
var DefaultOptions = Options{Width: 320, Height: 200, Title: "wasm-doom demo", SleepMs: 1}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	if o.Height <= 0 {
		o.Height = DefaultOptions.Height
	}
	if o.Title == "" {
		o.Title = DefaultOptions.Title
	}
	if o.SleepMs == 0 {
		o.SleepMs = DefaultOptions.SleepMs
	}
	if len(o.Title) > ScreenVarAddr-TitleAddr-1 {
		o.Title = o.Title[:ScreenVarAddr-TitleAddr-1]
	}
	return o
}

// Wasm returns the encoded guest.
func Wasm(opts Options) []byte {
	return Module(opts).Encode()
}

// Module builds the guest module.
func Module(opts Options) *wasm.Module {
	opts = opts.withDefaults()
	frameBytes := uint32(opts.Width * opts.Height * 4)

	m := &wasm.Module{}
	i32 := []wasm.ValType{wasm.ValI32}

	dgInit := m.ImportFunc("env", "DG_Init", wasm.FuncType{})
	dgDrawFrame := m.ImportFunc("env", "DG_DrawFrame", wasm.FuncType{})
	dgSleepMs := m.ImportFunc("env", "DG_SleepMs", wasm.FuncType{Params: i32})
	dgGetTicksMs := m.ImportFunc("env", "DG_GetTicksMs", wasm.FuncType{Results: i32})
	dgGetKey := m.ImportFunc("env", "DG_GetKey", wasm.FuncType{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}, Results: i32})
	dgSetWindowTitle := m.ImportFunc("env", "DG_SetWindowTitle", wasm.FuncType{Params: i32})

	// Room for the screen plus 1 MiB of heap for argv copies.
	pages := (HeapBase + frameBytes + 1<<20 + wasm.PageSize - 1) / wasm.PageSize
	mem := m.AddMemory(pages, nil)
	m.ExportMemory("memory", mem)
	m.AddData(TitleAddr, append([]byte(opts.Title), 0))

	heap := m.AddGlobalI32(HeapBase, true)
	screenVar := m.AddGlobalI32(ScreenVarAddr, false)
	resX := m.AddGlobalI32(int32(opts.Width), false)
	resY := m.AddGlobalI32(int32(opts.Height), false)
	m.ExportGlobal("DG_ScreenBuffer", screenVar)
	m.ExportGlobal("DG_ResX", resX)
	m.ExportGlobal("DG_ResY", resY)

	malloc := m.AddFunc(wasm.FuncType{Params: i32, Results: i32}, []wasm.LocalEntry{{Count: 1, ValType: wasm.ValI32}}, mallocBody(heap))
	if opts.UseCabiRealloc {
		realloc := m.AddFunc(
			wasm.FuncType{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32}, Results: i32},
			nil,
			wasm.NewCode().LocalGet(3).Call(malloc).End(),
		)
		m.ExportFunc("cabi_realloc", realloc)
	} else {
		m.ExportFunc("malloc", malloc)
	}

	create := wasm.NewCode()
	create.I32Const(0).LocalGet(0).I32Store(ArgcAddr)
	create.I32Const(0).LocalGet(1).I32Store(ArgvAddr)
	create.I32Const(0).I32Const(int32(frameBytes)).Call(malloc).I32Store(ScreenVarAddr)
	create.Call(dgInit)
	create.I32Const(TitleAddr).Call(dgSetWindowTitle)
	create.End()
	m.ExportFunc("doomgeneric_Create", m.AddFunc(wasm.FuncType{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}}, nil, create))

	m.ExportFunc("doomgeneric_Tick", m.AddFunc(wasm.FuncType{}, []wasm.LocalEntry{{Count: 4, ValType: wasm.ValI32}},
		tickBody(opts, dgGetTicksMs, dgGetKey, dgDrawFrame, dgSleepMs)))

	return m
}

// mallocBody is a bump allocator aligned to 8 bytes that returns 0 when the
// request does not fit in the current memory.
//
//	ptr = (heap + 7) &^ 7
//	if ptr + size > memory.size * 64K { return 0 }
//	heap = ptr + size
//	return ptr
func mallocBody(heap uint32) *wasm.Code {
	const size, ptr = 0, 1
	c := wasm.NewCode()
	c.GlobalGet(heap).I32Const(7).I32Add().I32Const(-8).I32And().LocalSet(ptr)
	c.LocalGet(ptr).LocalGet(size).I32Add().
		MemorySize().I32Const(16).I32Shl().
		I32GtU().If().I32Const(0).Return().End()
	c.LocalGet(ptr).LocalGet(size).I32Add().GlobalSet(heap)
	c.LocalGet(ptr).End()
	return c
}

// tickBody paints pixel i of frame f as
//
//	shade = (i / width + f) & 0xFF
//	pixel = lastKey << 16 | shade << 8 | shade ^ (t & 0xFF)
//
// in XRGB8888.
func tickBody(opts Options, getTicks, getKey, drawFrame, sleep uint32) *wasm.Code {
	const t, i, n, shade = 0, 1, 2, 3
	c := wasm.NewCode()

	c.Call(getTicks).LocalSet(t)

	// Drain keys; remember the last pressed code.
	c.Block().Loop().
		I32Const(KeyPressedPtr).I32Const(KeyCodePtr).Call(getKey).I32Eqz().BrIf(1).
		I32Const(0).I32Const(0).I32Load(KeyCountAddr).I32Const(1).I32Add().I32Store(KeyCountAddr).
		I32Const(0).I32Load(KeyPressedPtr).
		If().
		I32Const(0).I32Const(0).I32Load8U(KeyCodePtr).I32Store(LastKeyAddr).
		End().
		Br(0).
		End().End()

	c.I32Const(int32(opts.Width * opts.Height)).LocalSet(n)
	c.I32Const(0).LocalSet(i)
	c.Block().Loop().
		LocalGet(i).LocalGet(n).I32GeU().BrIf(1).
		// shade
		LocalGet(i).I32Const(int32(opts.Width)).I32DivU().
		I32Const(0).I32Load(FrameAddr).I32Add().
		I32Const(0xFF).I32And().LocalSet(shade).
		// address = screen + i*4
		I32Const(0).I32Load(ScreenVarAddr).LocalGet(i).I32Const(2).I32Shl().I32Add().
		// value
		I32Const(0).I32Load(LastKeyAddr).I32Const(16).I32Shl().
		LocalGet(shade).I32Const(8).I32Shl().I32Or().
		LocalGet(shade).LocalGet(t).I32Const(0xFF).I32And().I32Xor().I32Or().
		I32Store(0).
		LocalGet(i).I32Const(1).I32Add().LocalSet(i).
		Br(0).
		End().End()

	c.Call(drawFrame)
	c.I32Const(0).I32Const(0).I32Load(FrameAddr).I32Const(1).I32Add().I32Store(FrameAddr)
	c.I32Const(int32(opts.SleepMs)).Call(sleep)
	c.End()
	return c
}
