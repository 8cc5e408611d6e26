package keys

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, pressed := range []int32{0, 1, 2, 127} {
		for code := 0; code <= 255; code++ {
			v := EncodeRaw(pressed, uint8(code))
			if pressed == 0 && code == 0 {
				if v != None {
					t.Fatalf("EncodeRaw(0, 0) = %d, want None", v)
				}
				continue
			}
			gotPressed, gotCode, ok := Decode(v)
			if !ok {
				t.Fatalf("Decode(%d) reported no event for pressed=%d code=%d", v, pressed, code)
			}
			if gotPressed != pressed || gotCode != uint8(code) {
				t.Fatalf("Decode(EncodeRaw(%d, %d)) = (%d, %d)", pressed, code, gotPressed, gotCode)
			}
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  int32
	}{
		{"released zero", Event{Pressed: false, Code: 0}, 0},
		{"pressed enter", Event{Pressed: true, Code: Enter}, 0x100 | 13},
		{"released fire", Event{Pressed: false, Code: Fire}, 0xa3},
		{"pressed pause", Event{Pressed: true, Code: Pause}, 0x1ff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.event); got != tt.want {
				t.Errorf("Encode(%+v) = %#x, want %#x", tt.event, got, tt.want)
			}
		})
	}
}

func TestDecodeNoneIsNotAKey(t *testing.T) {
	if _, _, ok := Decode(None); ok {
		t.Fatal("Decode(None) must report no event")
	}
	if _, ok := DecodeEvent(0); ok {
		t.Fatal("DecodeEvent(0) must report no event")
	}
}

func TestDecodeEvent(t *testing.T) {
	e, ok := DecodeEvent(Encode(Event{Pressed: true, Code: 'w'}))
	if !ok || !e.Pressed || e.Code != 'w' {
		t.Errorf("DecodeEvent = %+v, %v", e, ok)
	}

	e, ok = DecodeEvent(Encode(Event{Pressed: false, Code: 'w'}))
	if !ok || e.Pressed || e.Code != 'w' {
		t.Errorf("DecodeEvent release = %+v, %v", e, ok)
	}
}

func TestFunctionKey(t *testing.T) {
	tests := []struct {
		n    int
		want uint8
	}{
		{0, 0},
		{1, F1},
		{5, F5},
		{10, F10},
		{11, F11},
		{12, F12},
		{13, 0},
	}
	for _, tt := range tests {
		if got := FunctionKey(tt.n); got != tt.want {
			t.Errorf("FunctionKey(%d) = %#x, want %#x", tt.n, got, tt.want)
		}
	}
}

func TestFromRune(t *testing.T) {
	tests := []struct {
		r    rune
		want uint8
		ok   bool
	}{
		{'a', 'a', true},
		{'Y', 'y', true},
		{'1', '1', true},
		{' ', ' ', true},
		{0, 0, false},
		{'é', 0, false},
		{0x7f, 0, false},
	}
	for _, tt := range tests {
		got, ok := FromRune(tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromRune(%q) = (%d, %v), want (%d, %v)", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}
