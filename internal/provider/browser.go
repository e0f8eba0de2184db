// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const defaultBrowserTimeout = 30 * time.Second

// Browser scrapes pages in a headless Chrome so script-rendered content is
// visible. It connects to ControlURL when set, otherwise launches a local
// browser on first use. It does not search. Close releases the browser.
type Browser struct {
	ControlURL string
	Timeout    time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// Name returns the strategy identifier.
func (b *Browser) Name() string { return "browser" }

// Search is not offered by the browser strategy.
func (b *Browser) Search(context.Context, string, int) ([]Result, error) {
	return nil, ErrUnsupported
}

// Scrape loads pageURL in a fresh tab and returns its visible text.
func (b *Browser) Scrape(ctx context.Context, pageURL string) (string, error) {
	br, err := b.connect()
	if err != nil {
		return "", err
	}

	page, err := br.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", pageURL, err)
	}
	defer page.Close()

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultBrowserTimeout
	}
	p := page.Context(ctx).Timeout(timeout)

	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("loading %s: %w", pageURL, err)
	}
	doc, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", pageURL, err)
	}

	_, text, err := extractText(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", pageURL, err)
	}
	return text, nil
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	controlURL := b.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launching browser: %w", err)
		}
		b.launcher = l
		controlURL = u
	}

	br := rod.New().ControlURL(controlURL)
	if err := br.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	b.browser = br
	return br, nil
}

// Close disconnects from the browser and stops it if it was launched here.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	if err != nil {
		return errors.Join(errors.New("closing browser"), err)
	}
	return nil
}
