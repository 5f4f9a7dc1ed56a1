package session

import (
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"

	Logger "github.com/sentinelworks/sentinel/utils/log"
)

const (
	loginUrl     = "https://www.facebook.com"
	loginCookie  = "c_user"
	pollInterval = 2 * time.Second

	// DefaultLoginDeadline bounds how long the capture waits for the
	// operator to finish logging in.
	DefaultLoginDeadline = 240 * time.Second
)

// CaptureStorageState opens a headful browser, waits for the operator to log
// in, then snapshots cookies and local storage to path. Login is detected by
// polling for the session cookie.
func CaptureStorageState(path string, deadline time.Duration) error {
	if deadline <= 0 {
		deadline = DefaultLoginDeadline
	}

	pw, err := playwright.Run()
	if err != nil {
		return errors.Wrap(err, "fail to start playwright")
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(false),
		Channel:  playwright.String("chrome"),
	})
	if err != nil {
		return errors.Wrap(err, "fail to launch browser")
	}
	defer browser.Close()

	context, err := browser.NewContext()
	if err != nil {
		return errors.Wrap(err, "fail to create browser context")
	}
	page, err := context.NewPage()
	if err != nil {
		return errors.Wrap(err, "fail to open page")
	}

	if _, err := page.Goto(loginUrl, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return errors.Wrap(err, "fail to open login page")
	}

	Logger.Log.Info("log in from the opened browser window, waiting up to ", deadline)
	if err := waitForLogin(context, deadline); err != nil {
		return err
	}

	if _, err := context.StorageState(path); err != nil {
		return errors.Wrap(err, "fail to write storage state")
	}
	Logger.Log.Info("storage state saved to ", path)
	return nil
}

func waitForLogin(browserContext playwright.BrowserContext, deadline time.Duration) error {
	expire := time.Now().Add(deadline)
	for time.Now().Before(expire) {
		cookies, err := browserContext.Cookies()
		if err == nil {
			for _, cookie := range cookies {
				if cookie.Name == loginCookie {
					return nil
				}
			}
		}
		time.Sleep(pollInterval)
	}
	return errors.New("timed out waiting for login session cookie")
}
