package browser

import (
	"context"
	"errors"
)

// ErrEngineStartup marks failures to launch or connect to the rendering
// engine. These are environment problems, not per-attempt problems: they
// are surfaced to the caller and never retried.
var ErrEngineStartup = errors.New("browser engine startup failed")

// Engine is the capability surface over a running rendering-engine process.
// The production implementation drives headless Chrome through go-rod; tests
// substitute scripted fakes.
type Engine interface {
	// NewSession creates an isolated browsing context (separate cookie and
	// storage jars) on the shared engine process.
	NewSession(ctx context.Context) (Session, error)

	// Close shuts the engine process down.
	Close() error
}

// Session is an isolated browsing context. A session is reused across many
// sequential page loads, and its state (cookies, cache) persists across
// reuse. It is never shared between two concurrent attempts.
type Session interface {
	// NewPage opens a fresh page in this session.
	NewPage(ctx context.Context) (Page, error)

	// Close disposes the browsing context.
	Close() error
}

// Page is a single open page. Callers must Close it on every exit path.
type Page interface {
	// OnResponse registers fn for the URL of every network response the
	// page observes, and returns a stop function that detaches the
	// observer. fn may be called from another goroutine until stop returns.
	OnResponse(fn func(url string)) (stop func())

	// Navigate loads the target URL and returns once the engine reports
	// the page load complete, or with an error when navigation fails or
	// the context is cancelled.
	Navigate(ctx context.Context, url string) error

	// Close releases the page.
	Close() error
}
