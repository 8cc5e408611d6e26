package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-doom/bridge"
	"github.com/wippyai/wasm-doom/errors"
)

// MaxTitleLength bounds the window title read from guest memory.
const MaxTitleLength = 256

// callbacks returns the bound callbacks or panics. wazero reports the panic
// as an error from the export that was executing.
func (e *WazeroEngine) callbacks(op string) bridge.Callbacks {
	e.cbMu.RLock()
	cb := e.cb
	e.cbMu.RUnlock()
	if cb == nil {
		panic(errors.MissingHandle(op))
	}
	return cb
}

// instantiateEnv registers the DG_* host functions as module "env".
func (e *WazeroEngine) instantiateEnv(ctx context.Context) error {
	builder := e.runtime.NewHostModuleBuilder(ModuleEnv)

	define := func(name string, fn api.GoModuleFunc, paramNames ...string) {
		sig := e.abi.Import(name)
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(fn, sig.CoreParams, sig.CoreResults).
			WithParameterNames(paramNames...).
			Export(name)
	}

	define(ImportInit, e.dgInit)
	define(ImportDrawFrame, e.dgDrawFrame)
	define(ImportSleepMs, e.dgSleepMs, "ms")
	define(ImportGetTicksMs, e.dgGetTicksMs)
	define(ImportGetKey, e.dgGetKey, "pressed", "key")
	define(ImportSetWindowTitle, e.dgSetWindowTitle, "title")

	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Wrap(errors.PhaseLink, errors.KindInstantiation, err, "instantiate env host module")
	}
	return nil
}

func (e *WazeroEngine) dgInit(_ context.Context, _ api.Module, _ []uint64) {
	e.callbacks(ImportInit).Init()
}

func (e *WazeroEngine) dgDrawFrame(_ context.Context, mod api.Module, _ []uint64) {
	cb := e.callbacks(ImportDrawFrame)
	cb.DrawFrame(e.screen(mod))
}

// screen returns a view of the guest framebuffer. DG_ScreenBuffer holds the
// address of the pixel pointer, so it is dereferenced once. A null or
// unmapped framebuffer yields nil and the frame is dropped downstream.
func (e *WazeroEngine) screen(mod api.Module) []byte {
	mem := mod.Memory()
	global := mod.ExportedGlobal(ExportScreenBuffer)
	if mem == nil || global == nil {
		return nil
	}

	addr := api.DecodeU32(global.Get())
	ptr, ok := mem.ReadUint32Le(addr)
	if !ok || ptr == 0 {
		Logger().Debug("screen buffer not allocated", zap.Uint32("addr", addr))
		return nil
	}

	view, ok := mem.Read(ptr, uint32(e.geometry.FrameSize()))
	if !ok {
		Logger().Warn("screen buffer outside guest memory",
			zap.Uint32("ptr", ptr),
			zap.Int("size", e.geometry.FrameSize()),
			zap.Uint32("memory", mem.Size()))
		return nil
	}
	return view
}

func (e *WazeroEngine) dgSleepMs(_ context.Context, _ api.Module, stack []uint64) {
	e.callbacks(ImportSleepMs).SleepMs(api.DecodeU32(stack[0]))
}

func (e *WazeroEngine) dgGetTicksMs(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(e.callbacks(ImportGetTicksMs).GetTicksMs())
}

// dgGetKey writes pressed as i32 and the key code as u8, returning 1, or
// returns 0 without touching guest memory when no event is queued.
func (e *WazeroEngine) dgGetKey(_ context.Context, mod api.Module, stack []uint64) {
	pressedPtr := api.DecodeU32(stack[0])
	keyPtr := api.DecodeU32(stack[1])

	pressed, code, ok := e.callbacks(ImportGetKey).GetKey()
	if !ok {
		stack[0] = api.EncodeI32(0)
		return
	}

	mem := mod.Memory()
	if !mem.WriteUint32Le(pressedPtr, uint32(pressed)) {
		panic(errors.OutOfBounds(errors.PhaseDispatch, pressedPtr, 4, mem.Size()))
	}
	if !mem.WriteByte(keyPtr, code) {
		panic(errors.OutOfBounds(errors.PhaseDispatch, keyPtr, 1, mem.Size()))
	}
	stack[0] = api.EncodeI32(1)
}

func (e *WazeroEngine) dgSetWindowTitle(_ context.Context, mod api.Module, stack []uint64) {
	cb := e.callbacks(ImportSetWindowTitle)
	mem := &WazeroMemory{mem: mod.Memory()}
	cb.SetWindowTitle(mem.CString(api.DecodeU32(stack[0]), MaxTitleLength))
}
