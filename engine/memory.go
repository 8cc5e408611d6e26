package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero/api"

	wasmdoom "github.com/wippyai/wasm-doom"
	"github.com/wippyai/wasm-doom/errors"
)

// WazeroMemory wraps wazero memory to implement wasmdoom.Memory
type WazeroMemory struct {
	mem api.Memory
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *WazeroMemory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *WazeroMemory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return v, nil
}

func (m *WazeroMemory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *WazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// CString reads a NUL-terminated string of at most limit bytes starting at
// ptr. A string running past limit or the end of memory is truncated.
func (m *WazeroMemory) CString(ptr, limit uint32) string {
	size := m.Size()
	if ptr >= size {
		return ""
	}
	if avail := size - ptr; avail < limit {
		limit = avail
	}
	data, ok := m.mem.Read(ptr, limit)
	if !ok {
		return ""
	}
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

var (
	_ wasmdoom.Memory      = (*WazeroMemory)(nil)
	_ wasmdoom.MemorySizer = (*WazeroMemory)(nil)
)

// wazeroAllocator calls the guest's allocator export. malloc(size) is
// preferred; cabi_realloc(0, 0, align, size) is the fallback.
type wazeroAllocator struct {
	allocFn       api.Function
	name          string
	currentCtx    context.Context
	stackBuf      []uint64
	stackMutex    sync.Mutex
	isSimpleAlloc bool
}

func newAllocator(mod api.Module) *wazeroAllocator {
	a := &wazeroAllocator{stackBuf: make([]uint64, 4)}
	if fn := mod.ExportedFunction(ExportMalloc); fn != nil {
		a.allocFn, a.name, a.isSimpleAlloc = fn, ExportMalloc, true
	} else if fn := mod.ExportedFunction(ExportCabiRealloc); fn != nil {
		a.allocFn, a.name = fn, ExportCabiRealloc
	}
	return a
}

func (a *wazeroAllocator) setContext(ctx context.Context) {
	a.stackMutex.Lock()
	defer a.stackMutex.Unlock()
	a.currentCtx = ctx
}

func (a *wazeroAllocator) Alloc(size, align uint32) (uint32, error) {
	if a.allocFn == nil {
		return 0, errors.Unavailable(errors.PhaseRuntime, "guest exports no allocator")
	}

	a.stackMutex.Lock()
	defer a.stackMutex.Unlock()

	ctx := a.currentCtx
	if ctx == nil {
		ctx = context.Background()
	}

	var stack []uint64
	if a.isSimpleAlloc {
		a.stackBuf[0] = uint64(size)
		stack = a.stackBuf[:1]
	} else {
		a.stackBuf[0] = 0
		a.stackBuf[1] = 0
		a.stackBuf[2] = uint64(align)
		a.stackBuf[3] = uint64(size)
		stack = a.stackBuf[:4]
	}
	if err := a.allocFn.CallWithStack(ctx, stack); err != nil {
		return 0, errors.Trap(a.name, err)
	}
	ptr := api.DecodeU32(stack[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(errors.PhaseRuntime, size, align)
	}
	return ptr, nil
}

var _ wasmdoom.Allocator = (*wazeroAllocator)(nil)
