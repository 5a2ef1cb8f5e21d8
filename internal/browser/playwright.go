package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"go-vagas-scraper/internal/scraper"
)

// LaunchOptions mirrors the browser settings from config
type LaunchOptions struct {
	Headless  bool
	UserAgent string
	Width     int
	Height    int
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    LaunchOptions
	log     *zap.Logger
}

// NewPlaywright starts the driver and a Chromium instance.
// Close must be called even if later setup fails.
func NewPlaywright(opts LaunchOptions, log *zap.Logger) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, eris.Wrap(err, "browser: start playwright")
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, eris.Wrap(err, "browser: launch chromium")
	}

	return &PlaywrightManager{
		pw:      pw,
		browser: browser,
		opts:    opts,
		log:     log,
	}, nil
}

// NewContext opens an isolated browser context with the configured viewport
// and user agent, preloaded with cookies when any are given.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	ctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  pm.opts.Width,
			Height: pm.opts.Height,
		},
		UserAgent: playwright.String(pm.opts.UserAgent),
	})
	if err != nil {
		return nil, eris.Wrap(err, "browser: new context")
	}

	if len(cookies) > 0 {
		if err := ctx.AddCookies(cookies); err != nil {
			_ = ctx.Close()
			return nil, eris.Wrap(err, "browser: add cookies")
		}
	}
	return ctx, nil
}

func (pm *PlaywrightManager) Close() error {
	var firstErr error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			firstErr = eris.Wrap(err, "browser: close chromium")
		}
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil && firstErr == nil {
			firstErr = eris.Wrap(err, "browser: stop playwright")
		}
	}
	pm.log.Info("🔒 Browser closed")
	return firstErr
}

// Page adapts a playwright tab to scraper.Page
type Page struct {
	page  playwright.Page
	shots *ScreenShotDebugger
}

func NewPage(page playwright.Page, shots *ScreenShotDebugger) *Page {
	return &Page{page: page, shots: shots}
}

func (p *Page) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
	return err
}

func (p *Page) WaitForSelector(selector string, timeout time.Duration) error {
	_, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
	return err
}

func (p *Page) QuerySelectorAll(selector string) ([]scraper.Node, error) {
	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	nodes := make([]scraper.Node, len(handles))
	for i, h := range handles {
		nodes[i] = elementNode{h}
	}
	return nodes, nil
}

// Capture saves a full-page screenshot for later debugging
func (p *Page) Capture(name, message string) {
	if p.shots == nil {
		return
	}
	_ = p.shots.CaptureAndLog(p.page, name, message)
}

type elementNode struct {
	el playwright.ElementHandle
}

func (n elementNode) QuerySelector(selector string) (scraper.Node, error) {
	el, err := n.el.QuerySelector(selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, nil
	}
	return elementNode{el}, nil
}

func (n elementNode) Attribute(name string) (string, error) {
	return n.el.GetAttribute(name)
}

func (n elementNode) InnerText() (string, error) {
	return n.el.InnerText()
}

func ms(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
