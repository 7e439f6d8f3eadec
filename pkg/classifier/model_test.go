package classifier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type countingLoader struct {
	calls atomic.Int32
	p     Predictor
	err   error
	block chan struct{}
}

func (l *countingLoader) Load(ctx context.Context, _ string) (Predictor, error) {
	l.calls.Add(1)
	if l.block != nil {
		select {
		case <-l.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return l.p, l.err
}

func TestModelLoadsOnce(t *testing.T) {
	l := &countingLoader{p: &fakePredictor{}}
	m := NewModel(l, "model/")
	if m.State() != StateNotLoaded {
		t.Fatalf("expected not_loaded got %s", m.State())
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Load(context.Background()); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := l.calls.Load(); got != 1 {
		t.Fatalf("expected one load call got %d", got)
	}
	if m.State() != StateReady {
		t.Fatalf("expected ready got %s", m.State())
	}
	if _, err := m.Predictor(); err != nil {
		t.Fatalf("predictor: %v", err)
	}
}

func TestModelLoadFailure(t *testing.T) {
	boom := errors.New("404")
	m := NewModel(&countingLoader{err: boom}, "model/")
	if err := m.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected load error got %v", err)
	}
	if m.State() != StateFailed {
		t.Fatalf("expected failed got %s", m.State())
	}
	_, err := m.Predictor()
	if !errors.Is(err, ErrModelNotLoaded) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrModelNotLoaded wrapping cause got %v", err)
	}
}

func TestModelStillLoading(t *testing.T) {
	l := &countingLoader{p: &fakePredictor{}, block: make(chan struct{})}
	m := NewModel(l, "model/")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.LoadAsync(ctx)

	if _, err := m.Predictor(); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded while loading got %v", err)
	}
	close(l.block)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.State() != StateReady {
		t.Fatalf("expected ready got %s", m.State())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{StateNotLoaded: "not_loaded", StateLoading: "loading", StateReady: "ready", StateFailed: "failed"} {
		if s.String() != want {
			t.Fatalf("%d: got %s want %s", s, s.String(), want)
		}
	}
}
