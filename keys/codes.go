package keys

// Doom key codes as defined by doomkeys.h.
const (
	RightArrow uint8 = 0xae
	LeftArrow  uint8 = 0xac
	UpArrow    uint8 = 0xad
	DownArrow  uint8 = 0xaf
	StrafeL    uint8 = 0xa0
	StrafeR    uint8 = 0xa1
	Use        uint8 = 0xa2
	Fire       uint8 = 0xa3
	Escape     uint8 = 27
	Enter      uint8 = 13
	Tab        uint8 = 9
	Backspace  uint8 = 0x7f
	Pause      uint8 = 0xff
	Equals     uint8 = 0x3d
	Minus      uint8 = 0x2d

	RShift uint8 = 0x80 + 0x36
	RCtrl  uint8 = 0x80 + 0x1d
	RAlt   uint8 = 0x80 + 0x38

	F1  uint8 = 0x80 + 0x3b
	F2  uint8 = 0x80 + 0x3c
	F3  uint8 = 0x80 + 0x3d
	F4  uint8 = 0x80 + 0x3e
	F5  uint8 = 0x80 + 0x3f
	F6  uint8 = 0x80 + 0x40
	F7  uint8 = 0x80 + 0x41
	F8  uint8 = 0x80 + 0x42
	F9  uint8 = 0x80 + 0x43
	F10 uint8 = 0x80 + 0x44
	F11 uint8 = 0x80 + 0x57
	F12 uint8 = 0x80 + 0x58
)

// FunctionKey returns the doom code for F1..F12, or 0 for n outside that range.
func FunctionKey(n int) uint8 {
	switch {
	case n >= 1 && n <= 10:
		return F1 + uint8(n-1)
	case n == 11:
		return F11
	case n == 12:
		return F12
	}
	return 0
}

// FromRune maps a printable character to its doom code. Letters are
// lower-cased; runes outside ASCII have no doom code.
func FromRune(r rune) (uint8, bool) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	if r <= 0 || r > 0x7e {
		return 0, false
	}
	return uint8(r), true
}
