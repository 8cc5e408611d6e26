// Package keys implements the key event encoding shared by the engine and the
// host, together with the doom key codes hosts translate into.
//
// An event is carried as a single integer: the low 8 bits hold the key code
// and the bits from 8 upward hold the pressed flag.
//
//	v = pressed<<8 | code&0xFF
//
// The value 0 is reserved to mean "no event". It collides with "key code 0
// released", which the engine never emits; the collision is inherited from
// the doomgeneric host protocol and is kept as is.
package keys

// None is the encoded value meaning no key event is available.
const None int32 = 0

// Event is a decoded key event.
type Event struct {
	Pressed bool
	Code    uint8
}

// Encode packs an event into its wire form.
func Encode(e Event) int32 {
	var pressed int32
	if e.Pressed {
		pressed = 1
	}
	return EncodeRaw(pressed, e.Code)
}

// EncodeRaw packs an arbitrary non-negative pressed flag and a key code.
func EncodeRaw(pressed int32, code uint8) int32 {
	return pressed<<8 | int32(code)&0xFF
}

// Decode splits an encoded value into the pressed flag and key code.
// ok is false for None; callers must not treat that as a key press.
func Decode(v int32) (pressed int32, code uint8, ok bool) {
	if v == None {
		return 0, 0, false
	}
	return v >> 8, uint8(v & 0xFF), true
}

// DecodeEvent is Decode returning an Event.
func DecodeEvent(v int32) (Event, bool) {
	pressed, code, ok := Decode(v)
	if !ok {
		return Event{}, false
	}
	return Event{Pressed: pressed != 0, Code: code}, true
}
