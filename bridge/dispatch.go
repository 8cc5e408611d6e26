package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-doom/errors"
	"github.com/wippyai/wasm-doom/keys"
)

// Host operation names, used in diagnostics.
const (
	OpInit           = "init"
	OpDrawFrame      = "drawFrame"
	OpSleepMs        = "sleepMs"
	OpGetTickMs      = "getTickMs"
	OpGetKey         = "getKey"
	OpSetWindowTitle = "setWindowTitle"
)

// Dispatcher translates engine calls into host calls.
// Every method runs synchronously on the engine's goroutine.
type Dispatcher struct {
	ctx *Context
}

var _ Callbacks = (*Dispatcher)(nil)

// host returns the bound host or panics. A missing host is a structural
// failure; the panic surfaces as an error from the engine call in progress.
func (d *Dispatcher) host(op string) Host {
	if d == nil || d.ctx == nil || d.ctx.host == nil {
		panic(errors.MissingHandle(op))
	}
	return d.ctx.host
}

// Init forwards to Host.Init.
func (d *Dispatcher) Init() {
	h := d.host(OpInit)
	Logger().Info("engine init")
	h.Init()
}

// DrawFrame copies screen into the shared frame buffer and hands it to the
// host. A frame that cannot be transferred is dropped and logged.
func (d *Dispatcher) DrawFrame(screen []byte) {
	h := d.host(OpDrawFrame)
	if ok, err := d.ctx.frames.Transfer(screen, h.DrawFrame); !ok {
		Logger().Error("frame dropped", zap.Error(err))
	}
}

// SleepMs widens ms and forwards to Host.SleepMs.
func (d *Dispatcher) SleepMs(ms uint32) {
	d.host(OpSleepMs).SleepMs(uint64(ms))
}

// GetTicksMs narrows the host's 64-bit tick count to the engine's 32-bit
// tick type. Values past 2^32 ms wrap.
func (d *Dispatcher) GetTicksMs() uint32 {
	return uint32(d.host(OpGetTickMs).GetTickMs())
}

// GetKey polls the host and decodes its answer. An encoded 0 means no event.
func (d *Dispatcher) GetKey() (pressed int32, code uint8, ok bool) {
	v := d.host(OpGetKey).GetKey()
	pressed, code, ok = keys.Decode(v)
	if ok {
		Logger().Debug("key event", zap.Int32("raw", v), zap.Int32("pressed", pressed), zap.Uint8("code", code))
	}
	return pressed, code, ok
}

// SetWindowTitle forwards the title text.
func (d *Dispatcher) SetWindowTitle(title string) {
	h := d.host(OpSetWindowTitle)
	Logger().Debug("window title", zap.String("title", title))
	h.SetWindowTitle(title)
}
