package browser

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeEngine scripts session creation for pool tests.
type fakeEngine struct {
	mu       sync.Mutex
	created  int
	closed   bool
	failFrom int // fail session creation once this many sessions exist; -1 disables
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failFrom: -1}
}

func (e *fakeEngine) NewSession(ctx context.Context) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failFrom >= 0 && e.created >= e.failFrom {
		return nil, errors.New("scripted session failure")
	}
	e.created++
	return &fakeSession{}, nil
}

func (e *fakeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

type fakeSession struct {
	mu     sync.Mutex
	closed int
}

func (s *fakeSession) NewPage(ctx context.Context) (Page, error) {
	return nil, errors.New("not used in pool tests")
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func TestNewPool_CreatesExactlyPoolSize(t *testing.T) {
	engine := newFakeEngine()
	pool, err := NewPool(context.Background(), engine, 4)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()

	if engine.created != 4 {
		t.Errorf("created %d sessions, want 4", engine.created)
	}
	if pool.Size() != 4 {
		t.Errorf("Size() = %d, want 4", pool.Size())
	}
}

func TestNewPool_RejectsZeroSize(t *testing.T) {
	if _, err := NewPool(context.Background(), newFakeEngine(), 0); err == nil {
		t.Error("NewPool accepted size 0")
	}
}

func TestNewPool_SessionFailureCleansUp(t *testing.T) {
	engine := newFakeEngine()
	engine.failFrom = 2

	if _, err := NewPool(context.Background(), engine, 4); err == nil {
		t.Fatal("NewPool succeeded despite scripted session failure")
	}
	// The engine stays open: its lifecycle belongs to the caller until a
	// pool exists.
	if engine.closed {
		t.Error("NewPool closed the engine on session failure")
	}
}

func TestPool_SessionRoundRobin(t *testing.T) {
	pool, err := NewPool(context.Background(), newFakeEngine(), 3)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer pool.Close()

	for i := 0; i < 9; i++ {
		if got, want := pool.Session(i), pool.Session(i%3); got != want {
			t.Errorf("Session(%d) != Session(%d)", i, i%3)
		}
	}
	if pool.Session(0) == pool.Session(1) {
		t.Error("distinct indexes map to the same session")
	}
}

func TestPool_CloseIsIdempotent(t *testing.T) {
	engine := newFakeEngine()
	pool, err := NewPool(context.Background(), engine, 2)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	first := pool.Session(0).(*fakeSession)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if !engine.closed {
		t.Error("engine not closed on teardown")
	}
	if first.closed != 1 {
		t.Errorf("session closed %d times, want 1", first.closed)
	}
}
