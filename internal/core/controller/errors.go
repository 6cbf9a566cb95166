package controller

import "errors"

var (
	ErrNoAlgorithm      = errors.New("controller requires an algorithm")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidDecision  = errors.New("algorithm returned a direction outside the table")
	ErrInvalidConfig    = errors.New("invalid controller config")
	ErrCorruptState     = errors.New("corrupt controller state")
)
