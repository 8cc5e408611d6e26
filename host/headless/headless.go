// Package headless implements a host panel without a display. It records
// every callback in order, runs on a virtual clock and can snapshot the last
// frame to PNG. It backs the end-to-end tests and the CLI's headless mode.
package headless

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-doom/bridge"
	"github.com/wippyai/wasm-doom/host"
	"github.com/wippyai/wasm-doom/keys"
)

// OpAllocateFrame names the frame allocation in the call log. The other
// callbacks use the bridge operation names.
const OpAllocateFrame = "allocateFrame"

// Call is one recorded callback with its argument or result.
type Call struct {
	Op    string
	Value uint64
	Text  string
}

// ScriptedKey is a key event delivered once the given frame has been drawn.
type ScriptedKey struct {
	AfterFrame uint64
	Event      keys.Event
}

// Options configures a Panel.
type Options struct {
	// MaxFrames makes Done report true after this many frames. Zero never stops.
	MaxFrames uint64
	// RealTime sleeps for real and reads the wall clock. By default sleeps
	// only advance a virtual clock.
	RealTime bool
	// Keys are replayed in order as frames are drawn.
	Keys []ScriptedKey
	// Record keeps the call log. GetKey polls that return no event are
	// not recorded.
	Record bool
}

// Panel is a bridge.Host and bridge.FrameAllocator without a display.
type Panel struct {
	opts  Options
	clock *host.Clock
	queue *host.KeyQueue

	mu      sync.Mutex
	virtual uint64
	calls   []Call
	frame   []byte
	title   string
	frames  uint64
	allocs  int
	scripts []ScriptedKey
}

// New returns a headless panel.
func New(opts Options) *Panel {
	p := &Panel{
		opts:    opts,
		queue:   host.NewKeyQueue(0),
		scripts: append([]ScriptedKey(nil), opts.Keys...),
	}
	if opts.RealTime {
		p.clock = host.NewClock()
	}
	p.releaseScripted()
	return p
}

// AllocateFrame implements bridge.FrameAllocator with a heap buffer.
func (p *Panel) AllocateFrame(size int) (*bridge.FrameBuffer, error) {
	p.mu.Lock()
	p.allocs++
	p.record(Call{Op: OpAllocateFrame, Value: uint64(size)})
	p.mu.Unlock()
	return bridge.NewFrameBuffer(size), nil
}

// Init implements bridge.Host.
func (p *Panel) Init() {
	p.mu.Lock()
	p.record(Call{Op: bridge.OpInit})
	p.mu.Unlock()
}

// DrawFrame implements bridge.Host. The frame is copied; the buffer is not
// retained.
func (p *Panel) DrawFrame(buf *bridge.FrameBuffer) {
	p.mu.Lock()
	data := buf.Bytes()
	if len(p.frame) != len(data) {
		p.frame = make([]byte, len(data))
	}
	copy(p.frame, data)
	p.frames++
	p.record(Call{Op: bridge.OpDrawFrame, Value: p.frames})
	if p.opts.MaxFrames > 0 && p.frames == p.opts.MaxFrames {
		bridge.Logger().Named("headless").Debug("frame limit reached", zap.Uint64("frames", p.frames))
	}
	p.mu.Unlock()

	p.releaseScripted()
}

// SleepMs implements bridge.Host.
func (p *Panel) SleepMs(ms uint64) {
	p.mu.Lock()
	p.record(Call{Op: bridge.OpSleepMs, Value: ms})
	p.virtual += ms
	p.mu.Unlock()

	if p.opts.RealTime {
		host.Sleep(ms)
	}
}

// GetTickMs implements bridge.Host.
func (p *Panel) GetTickMs() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.nowLocked()
	p.record(Call{Op: bridge.OpGetTickMs, Value: now})
	return now
}

// GetKey implements bridge.Host.
func (p *Panel) GetKey() int32 {
	p.mu.Lock()
	now := p.nowLocked()
	p.mu.Unlock()

	v := p.queue.Poll(now)
	if v != keys.None {
		p.mu.Lock()
		p.record(Call{Op: bridge.OpGetKey, Value: uint64(uint32(v))})
		p.mu.Unlock()
	}
	return v
}

// SetWindowTitle implements bridge.Host.
func (p *Panel) SetWindowTitle(title string) {
	p.mu.Lock()
	p.title = title
	p.record(Call{Op: bridge.OpSetWindowTitle, Text: title})
	p.mu.Unlock()
}

// Press queues a key-down event.
func (p *Panel) Press(code uint8) {
	p.queue.Press(code)
}

// Release queues a key-up event.
func (p *Panel) Release(code uint8) {
	p.queue.Release(code)
}

// Done reports whether MaxFrames frames have been drawn.
func (p *Panel) Done() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opts.MaxFrames > 0 && p.frames >= p.opts.MaxFrames
}

// Frames returns the number of frames drawn.
func (p *Panel) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Allocations returns how many frame buffers were requested.
func (p *Panel) Allocations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocs
}

// Title returns the last title set.
func (p *Panel) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Frame returns a copy of the last frame in XRGB8888, or nil before the
// first draw.
func (p *Panel) Frame() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.frame == nil {
		return nil
	}
	return append([]byte(nil), p.frame...)
}

// Calls returns a copy of the call log.
func (p *Panel) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Elapsed returns the panel's notion of elapsed time.
func (p *Panel) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Duration(p.nowLocked()) * time.Millisecond
}

func (p *Panel) nowLocked() uint64 {
	if p.clock != nil {
		return p.clock.Millis()
	}
	return p.virtual
}

func (p *Panel) record(c Call) {
	if p.opts.Record {
		p.calls = append(p.calls, c)
	}
}

// releaseScripted queues scripted keys whose frame has been reached.
func (p *Panel) releaseScripted() {
	p.mu.Lock()
	var due []ScriptedKey
	for len(p.scripts) > 0 && p.scripts[0].AfterFrame <= p.frames {
		due = append(due, p.scripts[0])
		p.scripts = p.scripts[1:]
	}
	p.mu.Unlock()

	for _, k := range due {
		if k.Event.Pressed {
			p.queue.Press(k.Event.Code)
		} else {
			p.queue.Release(k.Event.Code)
		}
	}
}
