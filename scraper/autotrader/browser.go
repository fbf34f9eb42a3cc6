package autotrader

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"autotrader-search/utils"
)

// BrowserSource renders pages in headless Chrome and returns the resulting
// document. It is slower than HTTPSource but gets past pages that only fill
// in their markup from script.
type BrowserSource struct {
	timeout     time.Duration
	settle      time.Duration
	logger      *utils.Logger
	browserCtx  context.Context
	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
}

// NewBrowserSource starts a shared browser. Close must be called to shut it
// down.
func NewBrowserSource(chromeBin, userAgent string, timeout time.Duration, logger *utils.Logger) (*BrowserSource, error) {
	bin := findChromeBinary(chromeBin)
	logger.Info("[browser] Using browser binary: %s", displayBin(bin))

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(userAgent),
	)
	if bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	// Suppress chromedp log noise
	browserCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser now so a missing binary fails at startup.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("browser: start: %w", err)
	}

	return &BrowserSource{
		timeout:     timeout,
		settle:      2 * time.Second,
		logger:      logger,
		browserCtx:  browserCtx,
		cancelAlloc: cancelAlloc,
		cancelTab:   cancelTab,
	}, nil
}

// Get opens url in a new tab and returns the rendered outer HTML.
func (s *BrowserSource) Get(ctx context.Context, url string) ([]byte, error) {
	tab, cancel := chromedp.NewContext(s.browserCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tab, s.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("browser: render %s: %w", url, err)
	}
	return []byte(html), nil
}

// Close shuts the browser down.
func (s *BrowserSource) Close() {
	s.cancelTab()
	s.cancelAlloc()
}

// findChromeBinary locates a Chrome/Chromium binary. An empty result lets
// chromedp fall back to its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

func displayBin(bin string) string {
	if bin == "" {
		return "(chromedp default)"
	}
	return bin
}
