package harvester

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"

	"github.com/sentinelworks/sentinel/utils"
	Logger "github.com/sentinelworks/sentinel/utils/log"
)

// browserSession bundles one isolated browser stack. One session per target,
// no sharing across concurrent extractors.
type browserSession struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func missingManagedBinary(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Executable doesn't exist") ||
		strings.Contains(msg, "chromium_headless_shell")
}

// launchBrowserWithFallback launches the managed Chromium binary, falling back
// to a locally installed Chrome channel when managed binaries are missing.
func launchBrowserWithFallback(pw *playwright.Playwright, headless bool) (playwright.Browser, error) {
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err == nil {
		return browser, nil
	}
	if !missingManagedBinary(err) {
		return nil, errors.Wrap(err, "fail to launch managed browser")
	}

	Logger.Log.Warn("managed browser binary missing, falling back to local chrome: ", err)
	browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Channel:  playwright.String("chrome"),
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to launch local chrome fallback")
	}
	return browser, nil
}

func newBrowserSession(opts Options) (*browserSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "fail to start playwright driver")
	}

	browser, err := launchBrowserWithFallback(pw, opts.Headless)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	contextOptions := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(utils.RandomUserAgent()),
	}
	if opts.StorageStatePath != "" {
		// Opaque authenticated session, consumed by the browser layer only.
		contextOptions.StorageStatePath = playwright.String(opts.StorageStatePath)
	}
	context, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, errors.Wrap(err, "fail to create browser context")
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, errors.Wrap(err, "fail to open page")
	}

	return &browserSession{pw: pw, browser: browser, context: context, page: page}, nil
}

func (s *browserSession) Close() {
	s.context.Close()
	s.browser.Close()
	s.pw.Stop()
}

// gotoWithResilientWait navigates without blocking on full network idleness.
// Feed pages keep long-lived requests open, so networkidle never fires.
// Prefer domcontentloaded, then progressively fall back.
func gotoWithResilientWait(page playwright.Page, targetUrl string, timeout time.Duration) error {
	timeoutMs := float64(timeout.Milliseconds())

	_, err := page.Goto(targetUrl, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeoutMs),
	})
	if err == nil {
		page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
			State:   playwright.LoadStateLoad,
			Timeout: playwright.Float(20_000),
		})
		return nil
	}

	_, err = page.Goto(targetUrl, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(timeoutMs),
	})
	if err == nil {
		return nil
	}

	// Last fallback: navigate without strict completion state and settle
	// briefly.
	_, err = page.Goto(targetUrl, playwright.PageGotoOptions{
		Timeout: playwright.Float(timeoutMs),
	})
	if err != nil {
		return errors.Wrapf(err, "fail to navigate to %s", targetUrl)
	}
	page.WaitForTimeout(2_000)
	return nil
}
