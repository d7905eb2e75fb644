package scraper

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BrowserFetcher fetches pages through a headless browser so that
// script-rendered and lazily loaded content ends up in the markup. The
// browser is launched on first use; every Fetch gets its own page and
// releases it on every exit path before the next candidate is tried.
type BrowserFetcher struct {
	headless   bool
	navTimeout time.Duration

	mu        sync.Mutex
	browser   *rod.Browser
	launchErr error
	launched  bool
}

// NewBrowserFetcher prepares a lazy browser fetcher. Launching is deferred
// so that configurations without headless sources never pay for a browser.
func NewBrowserFetcher(headless bool, navTimeout time.Duration) *BrowserFetcher {
	if navTimeout == 0 {
		navTimeout = 30 * time.Second
	}
	return &BrowserFetcher{headless: headless, navTimeout: navTimeout}
}

func (f *BrowserFetcher) ensure() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launched {
		return f.browser, f.launchErr
	}
	f.launched = true

	controlURL, err := launcher.New().Headless(f.headless).Launch()
	if err != nil {
		f.launchErr = eris.Wrap(err, "scraper: launch browser")
		return nil, f.launchErr
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		f.launchErr = eris.Wrap(err, "scraper: connect browser")
		return nil, f.launchErr
	}
	f.browser = browser
	return f.browser, nil
}

// Close shuts the browser down if it was ever launched.
func (f *BrowserFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser != nil {
		if err := f.browser.Close(); err != nil {
			zap.L().Warn("browser close failed", zap.Error(err))
		}
		f.browser = nil
	}
}

// Fetch navigates a fresh stealth page to the URL, waits for the load to
// settle, runs a bounded synthetic scroll to trigger lazy content and
// returns the rendered markup.
func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	browser, err := f.ensure()
	if err != nil {
		return "", err
	}

	page, err := stealth.Page(browser)
	if err != nil {
		return "", eris.Wrapf(err, "scraper: open page %s", rawURL)
	}
	defer page.MustClose()
	page = page.Context(ctx)

	if err := page.Timeout(f.navTimeout).Navigate(rawURL); err != nil {
		return "", eris.Wrapf(err, "scraper: navigate %s", rawURL)
	}
	if err := page.Timeout(f.navTimeout).WaitLoad(); err != nil {
		return "", eris.Wrapf(err, "scraper: wait load %s", rawURL)
	}

	if err := lazyScroll(page); err != nil {
		// Scroll failures only cost lazy content, not the page itself.
		zap.L().Debug("lazy scroll failed", zap.String("url", rawURL), zap.Error(err))
	}
	if err := page.Timeout(5 * time.Second).WaitStable(500 * time.Millisecond); err != nil {
		zap.L().Debug("wait stable timed out", zap.String("url", rawURL), zap.Error(err))
	}

	markup, err := page.HTML()
	if err != nil {
		return "", eris.Wrapf(err, "scraper: read markup %s", rawURL)
	}
	return markup, nil
}

// lazyScroll steps down the page in small increments to trigger
// lazy-loading, stopping early at the bottom.
func lazyScroll(page *rod.Page) error {
	for i := 0; i < 10; i++ {
		isAtBottom, err := page.Eval(`() => window.innerHeight + window.pageYOffset >= document.body.scrollHeight - 10`)
		if err != nil {
			return err
		}
		if isAtBottom.Value.Bool() {
			break
		}
		if _, err := page.Eval(`() => window.scrollBy(0, window.innerHeight * 0.8)`); err != nil {
			return err
		}
		time.Sleep(150 * time.Millisecond)
	}
	return nil
}
