//go:build !headless

package window

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/wippyai/wasm-doom/host"
	"github.com/wippyai/wasm-doom/keys"
)

var specialKeys = map[ebiten.Key]uint8{
	ebiten.KeyEnter:        keys.Enter,
	ebiten.KeyNumpadEnter:  keys.Enter,
	ebiten.KeyEscape:       keys.Escape,
	ebiten.KeyArrowLeft:    keys.LeftArrow,
	ebiten.KeyArrowRight:   keys.RightArrow,
	ebiten.KeyArrowUp:      keys.UpArrow,
	ebiten.KeyArrowDown:    keys.DownArrow,
	ebiten.KeyControlLeft:  keys.Fire,
	ebiten.KeyControlRight: keys.Fire,
	ebiten.KeySpace:        keys.Use,
	ebiten.KeyShiftLeft:    keys.RShift,
	ebiten.KeyShiftRight:   keys.RShift,
	ebiten.KeyAltLeft:      keys.RAlt,
	ebiten.KeyAltRight:     keys.RAlt,
	ebiten.KeyTab:          keys.Tab,
	ebiten.KeyBackspace:    keys.Backspace,
	ebiten.KeyEqual:        keys.Equals,
	ebiten.KeyMinus:        keys.Minus,
	ebiten.KeyPause:        keys.Pause,
	ebiten.KeyComma:        ',',
	ebiten.KeyPeriod:       '.',
	ebiten.KeySlash:        '/',
	ebiten.KeySemicolon:    ';',
	ebiten.KeyQuote:        '\'',
	ebiten.KeyBracketLeft:  '[',
	ebiten.KeyBracketRight: ']',
	ebiten.KeyBackslash:    '\\',
	ebiten.KeyBackquote:    '`',
}

// keyCode maps an ebiten key to a doom code. Letters, digits and function
// keys go through their key names ("A", "Digit1", "F1").
func keyCode(k ebiten.Key) (uint8, bool) {
	if code, ok := specialKeys[k]; ok {
		return code, true
	}
	name := strings.TrimPrefix(k.String(), "Digit")
	return host.KeyCode(name)
}
