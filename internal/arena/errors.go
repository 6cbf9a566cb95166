package arena

import "errors"

var (
	ErrInvalidScenario = errors.New("arena: invalid scenario")
	ErrUnknownShape    = errors.New("arena: unknown shape")
)
