package classifier

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// State is the lifecycle of a Model.
type State int

const (
	StateNotLoaded State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "not_loaded"
	}
}

// Loader produces a Predictor from a model location.
type Loader interface {
	Load(ctx context.Context, location string) (Predictor, error)
}

// Model is the process-wide classifier handle. It is loaded at most once and
// is read-only after it becomes ready. Until then every request gets
// ErrModelNotLoaded.
type Model struct {
	loader   Loader
	location string

	once      sync.Once
	mu        sync.RWMutex
	state     State
	predictor Predictor
	loadErr   error
}

// NewModel returns an unloaded handle for location.
func NewModel(loader Loader, location string) *Model {
	return &Model{loader: loader, location: location}
}

// NewReadyModel wraps an already available predictor.
func NewReadyModel(p Predictor) *Model {
	m := &Model{state: StateReady, predictor: p}
	m.once.Do(func() {})
	return m
}

// Load loads the model. Only the first call does any work; later calls wait
// for it and return its result.
func (m *Model) Load(ctx context.Context) error {
	m.once.Do(func() {
		m.setState(StateLoading, nil, nil)
		if m.loader == nil {
			m.setState(StateFailed, nil, fmt.Errorf("no loader configured"))
			return
		}
		start := time.Now()
		p, err := m.loader.Load(ctx, m.location)
		if err != nil {
			log.Printf("classifier: load %s failed after %s: %v", m.location, time.Since(start), err)
			m.setState(StateFailed, nil, err)
			return
		}
		log.Printf("classifier: model %s ready in %s", m.location, time.Since(start))
		m.setState(StateReady, p, nil)
	})
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadErr
}

// LoadAsync starts Load in the background.
func (m *Model) LoadAsync(ctx context.Context) {
	go func() { _ = m.Load(ctx) }()
}

func (m *Model) setState(s State, p Predictor, err error) {
	m.mu.Lock()
	m.state = s
	m.predictor = p
	m.loadErr = err
	m.mu.Unlock()
}

// State reports the current lifecycle state.
func (m *Model) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Predictor returns the loaded predictor or ErrModelNotLoaded.
func (m *Model) Predictor() (Predictor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch m.state {
	case StateReady:
		return m.predictor, nil
	case StateFailed:
		return nil, fmt.Errorf("%w: %w", ErrModelNotLoaded, m.loadErr)
	default:
		return nil, fmt.Errorf("%w: state %s", ErrModelNotLoaded, m.state)
	}
}
