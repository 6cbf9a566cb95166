package input

import "strings"

// KeyCode is a DirectInput keyboard scan code. Zero means "no key".
type KeyCode uint8

const (
	KeyNone   KeyCode = 0x00
	KeyEscape KeyCode = 0x01
	KeyLShift KeyCode = 0x2A
	KeyZ      KeyCode = 0x2C
	KeyX      KeyCode = 0x2D
	KeyUp     KeyCode = 0xC8
	KeyLeft   KeyCode = 0xCB
	KeyRight  KeyCode = 0xCD
	KeyDown   KeyCode = 0xD0
)

var keyNames = map[KeyCode]string{
	KeyNone:   "none",
	KeyEscape: "escape",
	KeyLShift: "lshift",
	KeyZ:      "z",
	KeyX:      "x",
	KeyUp:     "up",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyDown:   "down",
}

func (k KeyCode) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKeyCode resolves a key name produced by String.
func ParseKeyCode(name string) (KeyCode, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyNone, false
}

// Combo is the set of up to three keys held together for one decision.
// Unused slots are KeyNone.
type Combo [3]KeyCode

// Keys returns the non-empty codes in slot order.
func (c Combo) Keys() []KeyCode {
	out := make([]KeyCode, 0, len(c))
	for _, k := range c {
		if k != KeyNone {
			out = append(out, k)
		}
	}
	return out
}

// Has reports whether k is part of the combo.
func (c Combo) Has(k KeyCode) bool {
	for _, ck := range c {
		if ck == k && k != KeyNone {
			return true
		}
	}
	return false
}

// KeyTable maps a direction index to the keys that realize it. Row order
// matches the direction table; the layout is a compatibility contract with
// existing input tooling and recordings.
type KeyTable [17]Combo

// DefaultKeyTable returns the standard 17-row mapping. Row 0 holds only the
// focus key; focused rows carry the focus key in the third slot.
func DefaultKeyTable() KeyTable {
	return KeyTable{
		{KeyLShift, KeyNone, KeyNone},
		{KeyUp, KeyNone, KeyNone},
		{KeyDown, KeyNone, KeyNone},
		{KeyLeft, KeyNone, KeyNone},
		{KeyRight, KeyNone, KeyNone},
		{KeyUp, KeyLeft, KeyNone},
		{KeyUp, KeyRight, KeyNone},
		{KeyDown, KeyLeft, KeyNone},
		{KeyDown, KeyRight, KeyNone},
		{KeyUp, KeyNone, KeyLShift},
		{KeyDown, KeyNone, KeyLShift},
		{KeyLeft, KeyNone, KeyLShift},
		{KeyRight, KeyNone, KeyLShift},
		{KeyUp, KeyLeft, KeyLShift},
		{KeyUp, KeyRight, KeyLShift},
		{KeyDown, KeyLeft, KeyLShift},
		{KeyDown, KeyRight, KeyLShift},
	}
}

// Combo returns the keys for direction i, or an empty combo when i is out of
// range.
func (t *KeyTable) Combo(i int) Combo {
	if i < 0 || i >= len(t) {
		return Combo{}
	}
	return t[i]
}

// ControlKeys lists every key the controller may press; a synthesizer
// releases all of them before applying a new combo.
func ControlKeys() []KeyCode {
	return []KeyCode{KeyUp, KeyDown, KeyLeft, KeyRight, KeyLShift, KeyX}
}
