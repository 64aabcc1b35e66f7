package chromedp_fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/user/shopscout-service/internal/entity"
)

const renderUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Injected before any page script runs so navigator.webdriver probes see a
// regular browser.
const hideWebdriverScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// Renderer fetches a page through a real Chrome instance. Two configurations
// exist: the standard headless render, and a stealth variant with extra
// automation-countermeasure flags used as the chain's last resort. Each Fetch
// owns its browser and releases it on every exit path.
type Renderer struct {
	name    string
	timeout time.Duration
	settle  time.Duration
	flags   []chromedp.ExecAllocatorOption
}

func baseFlags() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(renderUserAgent),
	)
}

// NewHeadless creates the standard headless-render strategy: wait for the
// document, then a fixed settle delay for late-loading content.
func NewHeadless(timeout time.Duration) *Renderer {
	return &Renderer{
		name:    "headless",
		timeout: timeout,
		settle:  2 * time.Second,
		flags:   baseFlags(),
	}
}

// NewStealth creates the last-resort strategy with additional
// automation-suppression flags and a longer settle delay.
func NewStealth(timeout time.Duration) *Renderer {
	flags := append(baseFlags(),
		chromedp.Flag("headless", "new"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("use-automation-extension", false),
		chromedp.Flag("log-level", "3"),
	)
	return &Renderer{
		name:    "stealth",
		timeout: timeout,
		settle:  3 * time.Second,
		flags:   flags,
	}
}

func (r *Renderer) Name() string { return r.name }

// Fetch renders rawURL and returns the parsed, fully-rendered markup.
func (r *Renderer) Fetch(ctx context.Context, rawURL string) (*entity.ParsedPage, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.flags...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, r.timeout)
	defer cancelTimeout()

	var html, location string
	err := chromedp.Run(taskCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriverScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.settle),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered html: %w", err)
	}
	if location == "" {
		location = rawURL
	}

	return &entity.ParsedPage{Doc: doc, BaseURL: location}, nil
}
