package input

import "strings"

// Mask is the one-byte key state stored with every recorded frame.
type Mask uint8

const (
	MaskShot Mask = 1 << iota
	MaskBomb
	MaskSlow
	MaskSkip
	MaskUp
	MaskLeft
	MaskDown
	MaskRight
)

var maskNames = [...]string{"shot", "bomb", "slow", "skip", "up", "left", "down", "right"}

// Has reports whether every bit of b is set in m.
func (m Mask) Has(b Mask) bool { return m&b == b && b != 0 }

// Bits returns the individual flags set in m, lowest bit first.
func (m Mask) Bits() []Mask {
	out := make([]Mask, 0, 8)
	for i := range maskNames {
		if b := Mask(1) << i; m&b != 0 {
			out = append(out, b)
		}
	}
	return out
}

func (m Mask) String() string {
	if m == 0 {
		return "-"
	}
	names := make([]string, 0, 8)
	for i, n := range maskNames {
		if m&(Mask(1)<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, "|")
}

// Name returns the flag name of a single-bit mask.
func (m Mask) Name() string {
	for i, n := range maskNames {
		if m == Mask(1)<<i {
			return n
		}
	}
	return m.String()
}

// MaskOf converts pressed key codes into a mask. Codes without a mask bit
// are ignored.
func MaskOf(keys ...KeyCode) Mask {
	var m Mask
	for _, k := range keys {
		switch k {
		case KeyZ:
			m |= MaskShot
		case KeyX:
			m |= MaskBomb
		case KeyLShift:
			m |= MaskSlow
		case KeyUp:
			m |= MaskUp
		case KeyLeft:
			m |= MaskLeft
		case KeyDown:
			m |= MaskDown
		case KeyRight:
			m |= MaskRight
		}
	}
	return m
}

// MaskFor returns the recorded mask for direction index i of the default
// key table.
func MaskFor(i int) Mask {
	t := DefaultKeyTable()
	return MaskOf(t.Combo(i).Keys()...)
}
