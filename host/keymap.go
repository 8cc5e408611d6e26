package host

import (
	"strings"

	"github.com/wippyai/wasm-doom/keys"
)

// namedKeys maps host key names to doom codes. Names follow the bubbletea
// key strings so the terminal panel can look keys up directly.
var namedKeys = map[string]uint8{
	"enter":     keys.Enter,
	"esc":       keys.Escape,
	"escape":    keys.Escape,
	"left":      keys.LeftArrow,
	"right":     keys.RightArrow,
	"up":        keys.UpArrow,
	"down":      keys.DownArrow,
	"ctrl":      keys.Fire,
	"space":     keys.Use,
	" ":         keys.Use,
	"shift":     keys.RShift,
	"alt":       keys.RAlt,
	"tab":       keys.Tab,
	"backspace": keys.Backspace,
	"pause":     keys.Pause,
	"=":         keys.Equals,
	"-":         keys.Minus,
}

// KeyCode maps a key name to a doom code. Function keys are "f1".."f12";
// any other single printable character maps to its lower-cased ASCII value.
func KeyCode(name string) (uint8, bool) {
	if name == "" {
		return 0, false
	}
	if code, ok := namedKeys[name]; ok {
		return code, true
	}
	lower := strings.ToLower(name)
	if code, ok := namedKeys[lower]; ok {
		return code, true
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		n := 0
		for _, c := range lower[1:] {
			if c < '0' || c > '9' {
				n = 0
				break
			}
			n = n*10 + int(c-'0')
		}
		if code := keys.FunctionKey(n); code != 0 {
			return code, true
		}
	}
	r := []rune(name)
	if len(r) != 1 {
		return 0, false
	}
	return keys.FromRune(r[0])
}
