//go:build !headless

package window

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/wippyai/wasm-doom/keys"
)

func TestKeyCode(t *testing.T) {
	tests := []struct {
		key    ebiten.Key
		want   uint8
		wantOK bool
	}{
		{ebiten.KeyEnter, keys.Enter, true},
		{ebiten.KeyEscape, keys.Escape, true},
		{ebiten.KeyArrowLeft, keys.LeftArrow, true},
		{ebiten.KeyControlLeft, keys.Fire, true},
		{ebiten.KeyControlRight, keys.Fire, true},
		{ebiten.KeySpace, keys.Use, true},
		{ebiten.KeyShiftRight, keys.RShift, true},
		{ebiten.KeyAltLeft, keys.RAlt, true},
		{ebiten.KeyF1, keys.F1, true},
		{ebiten.KeyF10, keys.F10, true},
		{ebiten.KeyF12, keys.F12, true},
		{ebiten.KeyA, 'a', true},
		{ebiten.KeyZ, 'z', true},
		{ebiten.KeyDigit7, '7', true},
		{ebiten.KeyComma, ',', true},
		{ebiten.KeyPause, keys.Pause, true},
		{ebiten.KeyHome, 0, false},
		{ebiten.KeyF13, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			got, ok := keyCode(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("keyCode(%v) = %#x, %v; want %#x, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNewGame_Defaults(t *testing.T) {
	p := NewPanel(testGeometry)
	g := NewGame(t.Context(), p, nil, Options{})
	if g.opts.Scale != 2 || g.opts.TPS != 35 {
		t.Errorf("defaults = scale %d, tps %d; want 2, 35", g.opts.Scale, g.opts.TPS)
	}
	if len(g.pixels) != 4*2*4 {
		t.Errorf("pixel store = %d bytes, want 32", len(g.pixels))
	}
	if w, h := g.Layout(800, 600); w != 800 || h != 600 {
		t.Errorf("Layout = %dx%d, want 800x600", w, h)
	}
}

func TestStatusOptions(t *testing.T) {
	m := statusFace.Metrics()
	if m.HAscent+m.HDescent != 13 {
		t.Fatalf("line height = %v, want 13 for the 7x13 face", m.HAscent+m.HDescent)
	}

	op := statusOptions(200)
	x, y := op.GeoM.Apply(0, 0)
	if x != statusMargin || y != 200-statusMargin-13 {
		t.Errorf("status origin = (%v, %v), want (%d, %d)", x, y, statusMargin, 200-statusMargin-13)
	}
}
