package input

import (
	"errors"
	"fmt"
	"sync"
)

var ErrSynthesizerClosed = errors.New("input synthesizer is closed")

// Synthesizer delivers key presses to whatever process is being steered.
type Synthesizer interface {
	Press(keys ...KeyCode) error
	Release(keys ...KeyCode) error
}

// Apply releases every control key and then presses the keys of combo.
func Apply(s Synthesizer, combo Combo) error {
	if err := s.Release(ControlKeys()...); err != nil {
		return fmt.Errorf("release control keys: %w", err)
	}
	keys := combo.Keys()
	if len(keys) == 0 {
		return nil
	}
	if err := s.Press(keys...); err != nil {
		return fmt.Errorf("press %v: %w", keys, err)
	}
	return nil
}

// Recorder is an in-memory Synthesizer that tracks the held keys.
type Recorder struct {
	mu      sync.Mutex
	held    map[KeyCode]struct{}
	presses int
	closed  bool
}

func NewRecorder() *Recorder {
	return &Recorder{held: make(map[KeyCode]struct{})}
}

func (r *Recorder) Press(keys ...KeyCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrSynthesizerClosed
	}
	for _, k := range keys {
		if k == KeyNone {
			continue
		}
		r.held[k] = struct{}{}
		r.presses++
	}
	return nil
}

func (r *Recorder) Release(keys ...KeyCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrSynthesizerClosed
	}
	for _, k := range keys {
		delete(r.held, k)
	}
	return nil
}

// Held reports whether k is currently pressed.
func (r *Recorder) Held(k KeyCode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.held[k]
	return ok
}

// Mask returns the held keys as a recording mask.
func (r *Recorder) Mask() Mask {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]KeyCode, 0, len(r.held))
	for k := range r.held {
		keys = append(keys, k)
	}
	return MaskOf(keys...)
}

// Presses returns the number of individual key presses seen so far.
func (r *Recorder) Presses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presses
}

// Close makes further Press and Release calls fail.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	clear(r.held)
	return nil
}
