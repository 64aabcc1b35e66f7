package chromedp_fetch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/user/shopscout-service/internal/repository"
)

// Capturer renders a page in a stealth-configured Chrome and saves a
// viewport screenshot. It re-fetches the URL rather than reusing a parsed
// document, so screenshots work even when only the browser strategies can
// load the page.
type Capturer struct {
	timeout time.Duration
}

func NewCapturer(timeout time.Duration) *Capturer {
	return &Capturer{timeout: timeout}
}

// Capture renders rawURL and writes a PNG screenshot to outputPath. The
// half-page scroll and return trigger lazy-loaded images before the shot.
func (c *Capturer) Capture(ctx context.Context, rawURL, outputPath string) error {
	flags := append(baseFlags(),
		chromedp.Flag("headless", "new"),
		chromedp.Flag("enable-automation", false),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, flags...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, c.timeout)
	defer cancelTimeout()

	var buf []byte
	err := chromedp.Run(taskCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriverScript).Do(ctx)
			return err
		}),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight/2);`, nil),
		chromedp.Sleep(time.Second),
		chromedp.Evaluate(`window.scrollTo(0, 0);`, nil),
		chromedp.Sleep(time.Second),
		chromedp.CaptureScreenshot(&buf),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrCaptureFailed, err)
	}

	if err := os.WriteFile(outputPath, buf, 0o644); err != nil {
		return fmt.Errorf("%w: writing screenshot: %v", repository.ErrCaptureFailed, err)
	}
	return nil
}
