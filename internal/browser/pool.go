package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Pool owns a fixed-size set of isolated sessions on one shared engine.
//
// The pool does not track which sessions are busy. Session(i) is a
// stateless round-robin mapping; the batch scheduler guarantees exclusivity
// by never dispatching more than pool-size attempts at once.
type Pool struct {
	engine   Engine
	sessions []Session

	mu     sync.Mutex
	closed bool
}

// NewPool pre-warms exactly size sessions against the engine. On any
// failure the sessions created so far are closed and the error is returned;
// the engine is left for the caller to close.
func NewPool(ctx context.Context, engine Engine, size int) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}

	sessions := make([]Session, size)
	g, gctx := errgroup.WithContext(ctx)
	for i := range sessions {
		i := i
		g.Go(func() error {
			s, err := engine.NewSession(gctx)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			sessions[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, s := range sessions {
			if s != nil {
				s.Close()
			}
		}
		return nil, err
	}

	log.Debug().Int("size", size).Msg("session pool ready")
	return &Pool{engine: engine, sessions: sessions}, nil
}

// Session returns the session at i mod pool size. It never blocks: more
// concurrent callers than pool size simply share sessions, which the batch
// scheduler prevents within a dispatch group.
func (p *Pool) Session(i int) Session {
	return p.sessions[i%len(p.sessions)]
}

// Size returns the number of pooled sessions.
func (p *Pool) Size() int {
	return len(p.sessions)
}

// Close closes every session and then the engine. Idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for i, s := range p.sessions {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Int("session", i).Msg("closing session failed")
		}
	}
	p.sessions = nil

	if err := p.engine.Close(); err != nil {
		return fmt.Errorf("close engine: %w", err)
	}
	log.Debug().Msg("session pool closed")
	return nil
}
