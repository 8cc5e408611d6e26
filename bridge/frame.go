package bridge

import (
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-doom/errors"
)

// FrameBuffer is a fixed-size region shared between the bridge and the host.
// The bridge writes a frame at offset 0 and rewinds; the host reads from the
// current position.
type FrameBuffer struct {
	data []byte
	pos  int
}

// NewFrameBuffer returns a heap-backed buffer of size bytes.
func NewFrameBuffer(size int) *FrameBuffer {
	return &FrameBuffer{data: make([]byte, size)}
}

// WrapFrameBuffer uses host-owned memory as the buffer. A nil or short slice
// yields a buffer whose memory is unavailable to the bridge.
func WrapFrameBuffer(data []byte) *FrameBuffer {
	return &FrameBuffer{data: data}
}

// Direct returns the backing memory, or nil when none is mapped.
func (b *FrameBuffer) Direct() []byte {
	if b == nil || len(b.data) == 0 {
		return nil
	}
	return b.data
}

// Bytes returns the unread portion of the buffer.
func (b *FrameBuffer) Bytes() []byte {
	return b.data[b.pos:]
}

// Len returns the capacity of the buffer in bytes.
func (b *FrameBuffer) Len() int {
	return len(b.data)
}

// Position returns the read position.
func (b *FrameBuffer) Position() int {
	return b.pos
}

// Rewind resets the read position to the start.
func (b *FrameBuffer) Rewind() {
	b.pos = 0
}

// Read implements io.Reader over the unread portion.
func (b *FrameBuffer) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

// FrameStats counts frame channel activity.
type FrameStats struct {
	Allocations uint64
	Frames      uint64
	Dropped     uint64
}

// FrameChannel owns the single frame buffer and the per-draw copy protocol.
// The buffer is allocated on the first transfer and never replaced.
type FrameChannel struct {
	buf   *FrameBuffer
	alloc func(size int) (*FrameBuffer, error)
	size  int
	stats FrameStats
}

// NewFrameChannel creates a channel for frames of geom.FrameSize() bytes.
// If host implements FrameAllocator it provides the buffer.
func NewFrameChannel(geom Geometry, host Host) *FrameChannel {
	c := &FrameChannel{size: geom.FrameSize()}
	if fa, ok := host.(FrameAllocator); ok {
		c.alloc = fa.AllocateFrame
	} else {
		c.alloc = func(size int) (*FrameBuffer, error) {
			return NewFrameBuffer(size), nil
		}
	}
	return c
}

// Size returns the frame size in bytes.
func (c *FrameChannel) Size() int {
	return c.size
}

// Buffer returns the allocated buffer, or nil before the first transfer.
func (c *FrameChannel) Buffer() *FrameBuffer {
	return c.buf
}

// Stats returns a snapshot of the channel counters.
func (c *FrameChannel) Stats() FrameStats {
	return c.stats
}

// Transfer copies one frame from screen into the shared buffer, rewinds it
// and hands it to draw. It reports false when the frame was dropped; the
// error describes why. A dropped frame is never fatal.
func (c *FrameChannel) Transfer(screen []byte, draw func(*FrameBuffer)) (bool, error) {
	if c.buf == nil {
		Logger().Info("allocating frame buffer", zap.Int("size", c.size))
		buf, err := c.alloc(c.size)
		if err != nil {
			c.stats.Dropped++
			return false, errors.Wrap(errors.PhaseFrame, errors.KindAllocation, err, "allocate frame buffer")
		}
		if buf == nil {
			c.stats.Dropped++
			return false, errors.AllocationFailed(errors.PhaseFrame, uint32(c.size), 1)
		}
		c.buf = buf
		c.stats.Allocations++
	}

	dst := c.buf.Direct()
	if len(dst) < c.size {
		c.stats.Dropped++
		return false, errors.Unavailable(errors.PhaseFrame, "frame buffer memory not mapped")
	}
	if len(screen) < c.size {
		c.stats.Dropped++
		return false, errors.New(errors.PhaseFrame, errors.KindOutOfBounds).
			Detail("engine framebuffer holds %d bytes, frame needs %d", len(screen), c.size).
			Build()
	}

	copy(dst[:c.size], screen[:c.size])
	c.buf.Rewind()
	c.stats.Frames++

	draw(c.buf)
	return true, nil
}
