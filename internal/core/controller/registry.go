package controller

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zeusync/evade/internal/core/avoidance"
)

type reg struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return &reg{factories: make(map[string]Factory)}
}

func (r *reg) Register(name string, factory Factory) {
	r.mu.Lock()
	r.factories[name] = factory
	r.mu.Unlock()
}

func (r *reg) New(name string, opts avoidance.Options) (avoidance.Algorithm, error) {
	r.mu.RLock()
	f := r.factories[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return f(opts)
}

func (r *reg) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// RegisterBuiltins installs the velocity-obstacle and hold strategies.
func RegisterBuiltins(r Registry) {
	r.Register(avoidance.StrategyVelocityObstacle, func(opts avoidance.Options) (avoidance.Algorithm, error) {
		return avoidance.NewVelocityObstacle(opts), nil
	})
	r.Register(avoidance.StrategyHold, func(opts avoidance.Options) (avoidance.Algorithm, error) {
		return avoidance.NewHoldStrategy(opts), nil
	})
}
