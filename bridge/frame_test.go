package bridge

import (
	"bytes"
	"errors"
	"io"
	"testing"

	doomerrors "github.com/wippyai/wasm-doom/errors"
)

var smallGeometry = Geometry{Width: 4, Height: 2, BytesPerPixel: 4}

func TestGeometry(t *testing.T) {
	tests := []struct {
		name  string
		geom  Geometry
		size  int
		valid bool
	}{
		{"default", DefaultGeometry, 640 * 400 * 4, true},
		{"small", smallGeometry, 32, true},
		{"zero width", Geometry{0, 2, 4}, 0, false},
		{"negative height", Geometry{4, -1, 4}, -16, false},
		{"zero depth", Geometry{4, 2, 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.geom.FrameSize(); got != tt.size {
				t.Errorf("FrameSize() = %d, want %d", got, tt.size)
			}
			if got := tt.geom.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestFrameBuffer_Read(t *testing.T) {
	buf := WrapFrameBuffer([]byte{1, 2, 3, 4, 5})

	p := make([]byte, 3)
	n, err := buf.Read(p)
	if err != nil || n != 3 {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if buf.Position() != 3 {
		t.Errorf("Position = %d, want 3", buf.Position())
	}
	if !bytes.Equal(buf.Bytes(), []byte{4, 5}) {
		t.Errorf("Bytes = %v, want [4 5]", buf.Bytes())
	}

	rest, err := io.ReadAll(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rest, []byte{4, 5}) {
		t.Errorf("ReadAll = %v", rest)
	}
	if _, err := buf.Read(p); err != io.EOF {
		t.Errorf("Read past end = %v, want EOF", err)
	}

	buf.Rewind()
	if buf.Position() != 0 {
		t.Errorf("Position after Rewind = %d", buf.Position())
	}
}

func TestFrameBuffer_Direct(t *testing.T) {
	var nilBuf *FrameBuffer
	if nilBuf.Direct() != nil {
		t.Error("nil buffer should have no direct memory")
	}
	if WrapFrameBuffer(nil).Direct() != nil {
		t.Error("unmapped buffer should have no direct memory")
	}
	if got := NewFrameBuffer(8).Direct(); len(got) != 8 {
		t.Errorf("Direct len = %d, want 8", len(got))
	}
}

func TestFrameChannel_SingleAllocation(t *testing.T) {
	host := &allocatingHost{}
	ch := NewFrameChannel(smallGeometry, host)

	if ch.Buffer() != nil {
		t.Fatal("buffer allocated before first transfer")
	}

	screen := make([]byte, smallGeometry.FrameSize())
	for i := 0; i < 5; i++ {
		if ok, err := ch.Transfer(screen, host.DrawFrame); !ok {
			t.Fatalf("transfer %d: %v", i, err)
		}
	}

	if host.allocCalls != 1 {
		t.Errorf("AllocateFrame calls = %d, want 1", host.allocCalls)
	}
	first := host.buffers[0]
	for i, b := range host.buffers {
		if b != first {
			t.Errorf("draw %d received a different buffer", i)
		}
	}
	if s := ch.Stats(); s.Allocations != 1 || s.Frames != 5 || s.Dropped != 0 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestFrameChannel_CopiesExactlyFrameSize(t *testing.T) {
	host := &recordingHost{}
	ch := NewFrameChannel(smallGeometry, host)
	size := smallGeometry.FrameSize()

	// The engine buffer may be larger than one frame; only size bytes move.
	screen := make([]byte, size+8)
	for i := range screen {
		screen[i] = byte(i + 1)
	}

	if ok, err := ch.Transfer(screen, host.DrawFrame); !ok {
		t.Fatal(err)
	}
	if len(host.frames[0]) != size {
		t.Fatalf("host read %d bytes, want %d", len(host.frames[0]), size)
	}
	if !bytes.Equal(host.frames[0], screen[:size]) {
		t.Error("frame content mismatch")
	}
}

func TestFrameChannel_RewindsBeforeDraw(t *testing.T) {
	host := &recordingHost{}
	ch := NewFrameChannel(smallGeometry, host)
	screen := make([]byte, smallGeometry.FrameSize())

	for i := 0; i < 3; i++ {
		screen[0] = byte(i)
		if ok, err := ch.Transfer(screen, host.DrawFrame); !ok {
			t.Fatal(err)
		}
	}

	// The host drains the buffer on every draw, so each draw starts from a
	// position the bridge reset.
	for i, pos := range host.positions {
		if pos != 0 {
			t.Errorf("draw %d started at position %d", i, pos)
		}
		if host.frames[i][0] != byte(i) {
			t.Errorf("draw %d saw stale frame", i)
		}
	}
}

func TestFrameChannel_Drops(t *testing.T) {
	tests := []struct {
		name   string
		host   *allocatingHost
		screen int
		kind   doomerrors.Kind
	}{
		{
			name:   "allocation fails",
			host:   &allocatingHost{allocErr: errors.New("no memory")},
			screen: smallGeometry.FrameSize(),
			kind:   doomerrors.KindAllocation,
		},
		{
			name:   "memory not mapped",
			host:   &allocatingHost{unmapped: true},
			screen: smallGeometry.FrameSize(),
			kind:   doomerrors.KindUnavailable,
		},
		{
			name:   "engine buffer too small",
			host:   &allocatingHost{},
			screen: smallGeometry.FrameSize() - 1,
			kind:   doomerrors.KindOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := NewFrameChannel(smallGeometry, tt.host)
			ok, err := ch.Transfer(make([]byte, tt.screen), tt.host.DrawFrame)
			if ok {
				t.Fatal("expected dropped frame")
			}
			if !errors.Is(err, &doomerrors.Error{Phase: doomerrors.PhaseFrame, Kind: tt.kind}) {
				t.Errorf("error = %v, want kind %s", err, tt.kind)
			}
			if len(tt.host.calls) != 0 {
				t.Errorf("host saw %v for a dropped frame", tt.host.calls)
			}
			if ch.Stats().Dropped != 1 {
				t.Errorf("Dropped = %d, want 1", ch.Stats().Dropped)
			}
		})
	}
}

func TestFrameChannel_RetriesFailedAllocation(t *testing.T) {
	host := &allocatingHost{allocErr: errors.New("transient")}
	ch := NewFrameChannel(smallGeometry, host)
	screen := make([]byte, smallGeometry.FrameSize())

	if ok, _ := ch.Transfer(screen, host.DrawFrame); ok {
		t.Fatal("first transfer should drop")
	}
	if ok, err := ch.Transfer(screen, host.DrawFrame); !ok {
		t.Fatalf("second transfer: %v", err)
	}
	if ok, err := ch.Transfer(screen, host.DrawFrame); !ok {
		t.Fatalf("third transfer: %v", err)
	}

	if host.allocCalls != 2 {
		t.Errorf("AllocateFrame calls = %d, want 2", host.allocCalls)
	}
	if s := ch.Stats(); s.Allocations != 1 || s.Frames != 2 || s.Dropped != 1 {
		t.Errorf("Stats = %+v", s)
	}
}
