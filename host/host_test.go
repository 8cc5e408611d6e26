package host

import (
	"bytes"
	"testing"
	"time"

	"github.com/wippyai/wasm-doom/keys"
)

func TestXRGBToRGBA(t *testing.T) {
	src := []byte{
		0x10, 0x20, 0x30, 0x00, // B G R X
		0xff, 0x00, 0x80, 0x7f,
		0x01, // partial
	}
	dst := make([]byte, 8)
	n := XRGBToRGBA(dst, src)
	if n != 2 {
		t.Fatalf("converted %d pixels, want 2", n)
	}
	want := []byte{0x30, 0x20, 0x10, 0xff, 0x80, 0x00, 0xff, 0xff}
	if !bytes.Equal(dst, want) {
		t.Errorf("dst = % x, want % x", dst, want)
	}
}

func TestXRGBToRGBA_ShortDst(t *testing.T) {
	src := make([]byte, 16)
	dst := make([]byte, 4)
	if n := XRGBToRGBA(dst, src); n != 1 {
		t.Fatalf("converted %d pixels, want 1", n)
	}
	if dst[3] != 0xff {
		t.Errorf("alpha = %#x, want 0xff", dst[3])
	}
}

func TestPixelRGB(t *testing.T) {
	frame := []byte{0, 0, 0, 0, 3, 2, 1, 0}
	r, g, b := PixelRGB(frame, 1)
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("PixelRGB = %d,%d,%d, want 1,2,3", r, g, b)
	}
}

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name   string
		want   uint8
		wantOK bool
	}{
		{"enter", 13, true},
		{"esc", 27, true},
		{"left", 0xac, true},
		{"right", 0xae, true},
		{"up", 0xad, true},
		{"down", 0xaf, true},
		{"ctrl", 0xa3, true},
		{"space", 0xa2, true},
		{"shift", 0x80 + 0x36, true},
		{"alt", 0x80 + 0x38, true},
		{"tab", 9, true},
		{"f1", 0x80 + 0x3b, true},
		{"F10", 0x80 + 0x44, true},
		{"f11", 0x80 + 0x57, true},
		{"f12", 0x80 + 0x58, true},
		{"backspace", 0x7f, true},
		{"=", 0x3d, true},
		{"pause", 0xff, true},
		{"-", 0x2d, true},
		{"W", 'w', true},
		{"y", 'y', true},
		{"f", 'f', true},
		{"f13", 0, false},
		{"é", 0, false},
		{"", 0, false},
		{"pgup", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyCode(tt.name)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("KeyCode(%q) = %#x, %v; want %#x, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKeyCode_MatchesKeysPackage(t *testing.T) {
	if c, _ := KeyCode("ctrl"); c != keys.Fire {
		t.Errorf("ctrl = %#x, want Fire", c)
	}
	if c, _ := KeyCode("space"); c != keys.Use {
		t.Errorf("space = %#x, want Use", c)
	}
}

func TestClock(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	c := NewClockAt(func() time.Time { return now })

	if got := c.Millis(); got != 0 {
		t.Fatalf("Millis() = %d at start, want 0", got)
	}
	now = base.Add(1500 * time.Microsecond)
	if got := c.Millis(); got != 1 {
		t.Errorf("Millis() = %d, want 1", got)
	}
	now = base.Add(2 * time.Second)
	if got := c.Millis(); got != 2000 {
		t.Errorf("Millis() = %d, want 2000", got)
	}
	now = base.Add(-time.Second)
	if got := c.Millis(); got != 0 {
		t.Errorf("Millis() = %d before start, want 0", got)
	}
}
