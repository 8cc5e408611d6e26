package bridge

import (
	"context"
	"errors"
	"fmt"

	wasmdoom "github.com/wippyai/wasm-doom"
)

// linearMemory is a flat byte slice with a bump allocator, standing in for
// guest linear memory.
type linearMemory struct {
	data      []byte
	next      uint32
	failAlloc map[int]bool // 0-based allocation index -> fail
	allocs    int
}

func newLinearMemory(size int) *linearMemory {
	// Address 0 stays unused so a null pointer is never a valid allocation.
	return &linearMemory{data: make([]byte, size), next: 8}
}

func (m *linearMemory) Alloc(size, align uint32) (uint32, error) {
	idx := m.allocs
	m.allocs++
	if m.failAlloc[idx] {
		return 0, errors.New("out of memory")
	}
	if align == 0 {
		align = 1
	}
	p := (m.next + align - 1) &^ (align - 1)
	if uint64(p)+uint64(size) > uint64(len(m.data)) {
		return 0, errors.New("out of memory")
	}
	m.next = p + size
	return p, nil
}

func (m *linearMemory) Read(offset, length uint32) ([]byte, error) {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return m.data[offset : offset+length], nil
}

func (m *linearMemory) Write(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(m.data)) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *linearMemory) ReadU8(offset uint32) (uint8, error) {
	b, err := m.Read(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *linearMemory) ReadU32(offset uint32) (uint32, error) {
	b, err := m.Read(offset, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (m *linearMemory) WriteU8(offset uint32, v uint8) error {
	return m.Write(offset, []byte{v})
}

func (m *linearMemory) WriteU32(offset uint32, v uint32) error {
	return m.Write(offset, []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// cString reads a NUL-terminated string.
func (m *linearMemory) cString(ptr uint32) string {
	end := ptr
	for end < uint32(len(m.data)) && m.data[end] != 0 {
		end++
	}
	return string(m.data[ptr:end])
}

// readArgv decodes a null-terminated pointer array.
func (m *linearMemory) readArgv(argc int32, argv uint32) []string {
	if argv == 0 {
		return nil
	}
	out := make([]string, 0, argc)
	for i := int32(0); i < argc; i++ {
		p, _ := m.ReadU32(argv + uint32(i)*4)
		out = append(out, m.cString(p))
	}
	return out
}

var _ wasmdoom.Memory = (*linearMemory)(nil)
var _ wasmdoom.Allocator = (*linearMemory)(nil)

// failingArgs fails retrieval at the listed indices.
type failingArgs struct {
	items []string
	fail  map[int]bool
}

func (a failingArgs) Arg(i int) (string, error) {
	if a.fail[i] {
		return "", errors.New("string reference is null")
	}
	return a.items[i], nil
}

// recordingHost records every call in order.
type recordingHost struct {
	calls     []string
	frames    [][]byte
	positions []int
	buffers   []*FrameBuffer
	keys      []int32
	title     string
	tick      uint64
	slept     []uint64
}

func (h *recordingHost) Init() { h.calls = append(h.calls, OpInit) }

func (h *recordingHost) DrawFrame(buf *FrameBuffer) {
	h.calls = append(h.calls, OpDrawFrame)
	h.positions = append(h.positions, buf.Position())
	h.buffers = append(h.buffers, buf)
	frame := make([]byte, buf.Len())
	n, _ := buf.Read(frame)
	h.frames = append(h.frames, frame[:n])
}

func (h *recordingHost) SleepMs(ms uint64) {
	h.calls = append(h.calls, OpSleepMs)
	h.slept = append(h.slept, ms)
	h.tick += ms
}

func (h *recordingHost) GetTickMs() uint64 {
	h.calls = append(h.calls, OpGetTickMs)
	h.tick++
	return h.tick
}

func (h *recordingHost) GetKey() int32 {
	h.calls = append(h.calls, OpGetKey)
	if len(h.keys) == 0 {
		return 0
	}
	v := h.keys[0]
	h.keys = h.keys[1:]
	return v
}

func (h *recordingHost) SetWindowTitle(title string) {
	h.calls = append(h.calls, OpSetWindowTitle)
	h.title = title
}

// allocatingHost supplies its own frame memory.
type allocatingHost struct {
	recordingHost
	allocCalls int
	allocErr   error
	unmapped   bool
}

func (h *allocatingHost) AllocateFrame(size int) (*FrameBuffer, error) {
	h.allocCalls++
	if h.allocErr != nil {
		err := h.allocErr
		h.allocErr = nil
		return nil, err
	}
	if h.unmapped {
		return WrapFrameBuffer(nil), nil
	}
	return WrapFrameBuffer(make([]byte, size)), nil
}

// fakeEngine behaves like a doomgeneric guest: Create records argv, each Tick
// initialises once, reads the clock, draws and drains keys.
type fakeEngine struct {
	mem      *linearMemory
	cb       Callbacks
	geom     Geometry
	screen   []byte
	argv     []string
	bindErr  error
	started  bool
	inited   bool
	ticks    []uint32
	received [][2]int32
	allocCtx context.Context
}

func newFakeEngine(geom Geometry) *fakeEngine {
	return &fakeEngine{
		mem:    newLinearMemory(1 << 16),
		geom:   geom,
		screen: make([]byte, geom.FrameSize()),
	}
}

func (e *fakeEngine) Bind(cb Callbacks) error {
	if e.bindErr != nil {
		return e.bindErr
	}
	e.cb = cb
	return nil
}

func (e *fakeEngine) Geometry() Geometry      { return e.geom }
func (e *fakeEngine) Memory() wasmdoom.Memory { return e.mem }

func (e *fakeEngine) Allocator(ctx context.Context) wasmdoom.Allocator {
	e.allocCtx = ctx
	return e.mem
}

func (e *fakeEngine) Create(_ context.Context, argc int32, argv uint32) error {
	e.argv = e.mem.readArgv(argc, argv)
	e.started = true
	return nil
}

func (e *fakeEngine) Tick(_ context.Context) error {
	if !e.inited {
		e.cb.Init()
		e.cb.SetWindowTitle("DOOM")
		e.inited = true
	}
	e.ticks = append(e.ticks, e.cb.GetTicksMs())
	for i := range e.screen {
		e.screen[i] = byte(len(e.ticks) + i)
	}
	e.cb.DrawFrame(e.screen)
	for {
		pressed, code, ok := e.cb.GetKey()
		if !ok {
			break
		}
		e.received = append(e.received, [2]int32{pressed, int32(code)})
	}
	e.cb.SleepMs(5)
	return nil
}
