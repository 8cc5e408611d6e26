package bridge

import (
	"context"

	wasmdoom "github.com/wippyai/wasm-doom"
)

// Host is the capability interface a host panel implements.
// Each method maps to one engine-facing service and is called synchronously
// from within Tick.
type Host interface {
	// Init is called once before the first frame.
	Init()
	// DrawFrame receives the shared frame buffer rewound to position 0.
	// The buffer is overwritten by the next draw; retain a copy, not the buffer.
	DrawFrame(buf *FrameBuffer)
	// SleepMs blocks for the given number of milliseconds.
	SleepMs(ms uint64)
	// GetTickMs returns monotonic milliseconds since an arbitrary epoch.
	GetTickMs() uint64
	// GetKey returns the next encoded key event, or keys.None.
	GetKey() int32
	// SetWindowTitle updates the panel title.
	SetWindowTitle(title string)
}

// FrameAllocator is implemented by hosts that own the memory frames are
// written into. Hosts without it get a heap-backed buffer.
type FrameAllocator interface {
	AllocateFrame(size int) (*FrameBuffer, error)
}

// Callbacks is the engine-facing side of the bridge.
type Callbacks interface {
	Init()
	// DrawFrame copies one raster frame from the engine's framebuffer.
	DrawFrame(screen []byte)
	SleepMs(ms uint32)
	GetTicksMs() uint32
	// GetKey reports the next key event; ok is false when none is pending.
	GetKey() (pressed int32, code uint8, ok bool)
	SetWindowTitle(title string)
}

// Engine is the tick-driven simulation the bridge drives.
type Engine interface {
	// Bind resolves the engine's host imports to cb. Called once, before Create.
	Bind(cb Callbacks) error
	// Geometry reports the raster frame layout fixed by the engine build.
	Geometry() Geometry
	Memory() wasmdoom.Memory
	// Allocator returns the engine heap; its calls run under ctx.
	Allocator(ctx context.Context) wasmdoom.Allocator
	// Create starts the engine with an argv vector laid out in engine memory.
	Create(ctx context.Context, argc int32, argv uint32) error
	// Tick advances the engine by one step.
	Tick(ctx context.Context) error
}

// Geometry describes the raster frame produced by the engine.
type Geometry struct {
	Width         int
	Height        int
	BytesPerPixel int
}

// DefaultGeometry matches a stock doomgeneric build: 640x400 XRGB8888.
var DefaultGeometry = Geometry{Width: 640, Height: 400, BytesPerPixel: 4}

// FrameSize returns the byte size of one frame.
func (g Geometry) FrameSize() int {
	return g.Width * g.Height * g.BytesPerPixel
}

// Valid reports whether every dimension is positive.
func (g Geometry) Valid() bool {
	return g.Width > 0 && g.Height > 0 && g.BytesPerPixel > 0
}
