package avoidance

import "errors"

var (
	ErrDirectionCount  = errors.New("direction table must have exactly 17 rows")
	ErrHoldNotZero     = errors.New("hold direction must have a zero unit vector and no focus flag")
	ErrNotUnit         = errors.New("direction unit vector must have length 1")
	ErrFocusLayout     = errors.New("rows 9-16 must be the focused variants of rows 1-8")
	ErrKeyMismatch     = errors.New("direction does not match the motion of its key combination")
	ErrUnknownStrategy = errors.New("unknown avoidance strategy")
)
