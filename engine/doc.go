// Package engine runs a doomgeneric guest compiled to WebAssembly.
//
// The guest is a core module built from doomgeneric with the host platform
// functions left as imports. The engine wraps wazero to compile it, check it
// against the doomgeneric ABI, provide the host imports and drive its entry
// points.
//
// # ABI
//
// The boundary is declared as WIT-typed signatures (see DoomABI) and lowered
// to core types:
//
//	Import (module "env")                       Core signature
//	─────────────────────────────────────────────────────────
//	DG_Init()                                   () -> ()
//	DG_DrawFrame()                              () -> ()
//	DG_SleepMs(ms: u32)                         (i32) -> ()
//	DG_GetTicksMs() -> u32                      () -> (i32)
//	DG_GetKey(pressed: u32, key: u32) -> s32    (i32, i32) -> (i32)
//	DG_SetWindowTitle(title: u32)               (i32) -> ()
//
//	Export                                      Core signature
//	─────────────────────────────────────────────────────────
//	doomgeneric_Create(argc: s32, argv: u32)    (i32, i32) -> ()
//	doomgeneric_Tick()                          () -> ()
//	malloc(size: u32) -> u32                    (i32) -> (i32)
//	cabi_realloc(old, old-size, align, size)    (i32, i32, i32, i32) -> (i32)
//	memory                                      linear memory
//	DG_ScreenBuffer                             global, address of pixel_t*
//
// Either malloc or cabi_realloc must be exported. DG_ResX and DG_ResY may be
// exported as i32 globals to announce a non-default resolution. Imports from
// any module other than "env" and "wasi_snapshot_preview1" are rejected with
// an UnresolvedImportsError before instantiation.
//
// # Frames
//
// DG_DrawFrame hands the bound callbacks a view of guest memory covering one
// frame; nothing is copied here. The view is only valid for the duration of
// the call.
//
// # WASI
//
// The guest gets wasi_snapshot_preview1 with real clocks. Config.WADDir is
// mounted read-only at "/" so "-iwad /doom1.wad" resolves inside it. Guest
// stdout and stderr go to the package logger unless Config supplies writers.
//
// # Thread Safety
//
// A WazeroEngine is driven from one goroutine. Host callbacks run on that
// goroutine, inside Create and Tick.
package engine
