package engine

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	wasmdoom "github.com/wippyai/wasm-doom"
	"github.com/wippyai/wasm-doom/bridge"
	"github.com/wippyai/wasm-doom/errors"
)

// DefaultModuleName names the guest instance inside the runtime.
const DefaultModuleName = "doom"

// Config holds configuration for engine creation
type Config struct {
	// Wasm is the doomgeneric guest binary.
	Wasm []byte

	// Name of the guest instance. Defaults to DefaultModuleName.
	Name string

	// WADDir is mounted read-only at "/" inside the guest. Empty means no
	// filesystem access.
	WADDir string

	// Env holds KEY=VALUE pairs exposed through WASI.
	Env []string

	// Geometry overrides the frame layout. When zero, the guest's exported
	// DG_ResX/DG_ResY globals are used, then bridge.DefaultGeometry.
	Geometry bridge.Geometry

	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// Stdout and Stderr receive guest output. When nil, output is logged.
	Stdout io.Writer
	Stderr io.Writer
}

// WazeroEngine runs a doomgeneric guest on wazero and implements
// bridge.Engine.
type WazeroEngine struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	module   api.Module
	abi      *ABI
	memory   *WazeroMemory
	alloc    *wazeroAllocator
	createFn api.Function
	tickFn   api.Function
	cb       bridge.Callbacks
	closers  []io.Closer
	cfg      Config
	geometry bridge.Geometry
	ticks    atomic.Uint64
	cbMu     sync.RWMutex
}

var _ bridge.Engine = (*WazeroEngine)(nil)

// New compiles and validates the guest, links the env and WASI host modules
// and instantiates it. Callbacks are bound later with Bind; the guest must
// not call into the host before doomgeneric_Create.
func New(ctx context.Context, cfg Config) (*WazeroEngine, error) {
	if len(cfg.Wasm) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no guest module")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultModuleName
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	e := &WazeroEngine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		abi:     DoomABI(),
		cfg:     cfg,
	}
	if err := e.load(ctx); err != nil {
		_ = e.Close(ctx)
		return nil, err
	}
	return e, nil
}

func (e *WazeroEngine) load(ctx context.Context) error {
	compiled, err := e.runtime.CompileModule(ctx, e.cfg.Wasm)
	if err != nil {
		return errors.Load("compile guest", err)
	}
	e.compiled = compiled

	if err := CheckImports(e.abi, compiled.ImportedFunctions()); err != nil {
		return err
	}
	_, hasMemory := compiled.ExportedMemories()[ExportMemory]
	if err := CheckExports(e.abi, compiled.ExportedFunctions(), hasMemory); err != nil {
		return err
	}

	if err := e.instantiateWASI(ctx); err != nil {
		return err
	}
	if err := e.instantiateEnv(ctx); err != nil {
		return err
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled, e.moduleConfig())
	if err != nil {
		return errors.Instantiation(err)
	}
	e.module = mod

	if mod.ExportedGlobal(ExportScreenBuffer) == nil {
		return errors.MissingExport(ExportScreenBuffer)
	}

	e.geometry = e.resolveGeometry(mod)
	e.memory = &WazeroMemory{mem: mod.Memory()}
	e.alloc = newAllocator(mod)
	e.createFn = mod.ExportedFunction(ExportCreate)
	e.tickFn = mod.ExportedFunction(ExportTick)

	Logger().Info("guest loaded",
		zap.String("name", e.cfg.Name),
		zap.Int("width", e.geometry.Width),
		zap.Int("height", e.geometry.Height),
		zap.String("allocator", e.alloc.name),
		zap.Uint32("memory", e.memory.Size()))
	return nil
}

func (e *WazeroEngine) resolveGeometry(mod api.Module) bridge.Geometry {
	if e.cfg.Geometry.Valid() {
		return e.cfg.Geometry
	}
	resX, resY := mod.ExportedGlobal(ExportResX), mod.ExportedGlobal(ExportResY)
	if resX != nil && resY != nil {
		g := bridge.Geometry{
			Width:         int(api.DecodeI32(resX.Get())),
			Height:        int(api.DecodeI32(resY.Get())),
			BytesPerPixel: bridge.DefaultGeometry.BytesPerPixel,
		}
		if g.Valid() {
			return g
		}
	}
	return bridge.DefaultGeometry
}

// Bind installs the callbacks the DG_* imports forward to. It may be called
// once.
func (e *WazeroEngine) Bind(cb bridge.Callbacks) error {
	if cb == nil {
		return errors.InvalidInput(errors.PhaseCreate, "callbacks are nil")
	}
	e.cbMu.Lock()
	defer e.cbMu.Unlock()
	if e.cb != nil {
		return errors.AlreadyCreated("engine callbacks")
	}
	e.cb = cb
	return nil
}

func (e *WazeroEngine) Geometry() bridge.Geometry {
	return e.geometry
}

func (e *WazeroEngine) Memory() wasmdoom.Memory {
	return e.memory
}

// Allocator returns the guest heap. Allocations call into the guest under
// ctx until the next Allocator, Create or Tick call replaces it.
func (e *WazeroEngine) Allocator(ctx context.Context) wasmdoom.Allocator {
	e.alloc.setContext(ctx)
	return e.alloc
}

// Create calls doomgeneric_Create(argc, argv).
func (e *WazeroEngine) Create(ctx context.Context, argc int32, argv uint32) error {
	e.alloc.setContext(ctx)
	if _, err := e.createFn.Call(ctx, api.EncodeI32(argc), api.EncodeU32(argv)); err != nil {
		return errors.Trap(ExportCreate, err)
	}
	return nil
}

// Tick calls doomgeneric_Tick.
func (e *WazeroEngine) Tick(ctx context.Context) error {
	if _, err := e.tickFn.Call(ctx); err != nil {
		return errors.Trap(ExportTick, err)
	}
	e.ticks.Add(1)
	return nil
}

// Ticks returns the number of completed ticks.
func (e *WazeroEngine) Ticks() uint64 {
	return e.ticks.Load()
}

// Close releases the runtime and flushes guest output.
func (e *WazeroEngine) Close(ctx context.Context) error {
	var firstErr error
	if e.runtime != nil {
		if err := e.runtime.Close(ctx); err != nil {
			firstErr = err
		}
		e.runtime = nil
	}
	for _, c := range e.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	e.closers = nil
	e.module = nil
	e.compiled = nil
	return firstErr
}

// ExitCode reports the status passed to exit() when err came from a guest
// that exited, as doom does on quit.
func ExitCode(err error) (uint32, bool) {
	var exitErr *sys.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}
