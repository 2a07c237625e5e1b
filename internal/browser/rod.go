package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"
)

// LaunchConfig configures the headless Chrome launch.
type LaunchConfig struct {
	// Headless renders off-screen. Disable for debugging only.
	Headless bool
}

// Launch starts a Chrome process and connects to it. Failures wrap
// ErrEngineStartup.
func Launch(cfg LaunchConfig) (Engine, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-accelerated-2d-canvas").
		Set("ignore-certificate-errors")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch: %v", ErrEngineStartup, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("%w: connect: %v", ErrEngineStartup, err)
	}

	log.Debug().Str("control_url", controlURL).Bool("headless", cfg.Headless).
		Msg("browser engine launched")

	return &rodEngine{browser: b, lnch: l}, nil
}

type rodEngine struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
}

func (e *rodEngine) NewSession(ctx context.Context) (Session, error) {
	// Incognito gives each session its own cookie/storage jar on the one
	// shared Chrome process.
	incog, err := e.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("create browsing context: %w", err)
	}
	return &rodSession{browser: incog}, nil
}

func (e *rodEngine) Close() error {
	err := e.browser.Close()
	if e.lnch != nil {
		e.lnch.Cleanup()
	}
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}

type rodSession struct {
	browser *rod.Browser
}

func (s *rodSession) NewPage(ctx context.Context) (Page, error) {
	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &rodPage{page: page}, nil
}

func (s *rodSession) Close() error {
	return proto.TargetDisposeBrowserContext{
		BrowserContextID: s.browser.BrowserContextID,
	}.Call(s.browser)
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) OnResponse(fn func(url string)) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	pg := p.page.Context(ctx)
	go pg.EachEvent(func(e *proto.NetworkResponseReceived) {
		fn(e.Response.URL)
	})()
	return cancel
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	pg := p.page.Context(ctx)
	if err := pg.Navigate(url); err != nil {
		return err
	}
	return pg.WaitLoad()
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
