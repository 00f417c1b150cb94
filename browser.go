//go:build !unittest

package screener

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// attempt runs one full acquisition: launch, optional login, extract. The
// browser is torn down on every exit path so no Chrome process or profile
// lock outlives the attempt.
func (s *Scanner) attempt(ctx context.Context, req ScanRequest) (*ProfileDocument, error) {
	if err := s.launchBrowser(ctx, req); err != nil {
		return nil, err
	}
	defer func() {
		// Teardown is best-effort and must never mask the attempt's
		// own result.
		if cerr := s.closeBrowser(); cerr != nil {
			log.Debug("browser teardown", "error", cerr)
		}
	}()

	if req.Credentials != nil {
		if !s.ensureLoggedIn(req.Credentials) {
			log.Warn("continuing without authentication", "state", s.authState)
		}
	}

	return s.acquire(req.URL)
}

// launchBrowser starts a fresh Chrome process with stealth patches applied.
// When the request asks for session reuse the process is bound to the
// persistent profile directory.
func (s *Scanner) launchBrowser(ctx context.Context, req ScanRequest) error {
	l := launcher.New().Headless(req.Headless)
	if req.UseSession {
		dir, err := s.sessions.Resolve()
		if err != nil {
			return fmt.Errorf("resolve session dir: %w", err)
		}
		l = l.UserDataDir(dir)
	}
	if s.proxy != "" {
		l = l.Proxy(s.proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("create stealth page: %w", err)
	}
	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      s.userAgent,
		AcceptLanguage: "en-US,en",
	}); err != nil {
		log.Debug("set user agent", "error", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		log.Debug("set viewport", "error", err)
	}

	s.browser = browser
	s.page = page
	s.setupResourceBlocking()
	return nil
}

// setupResourceBlocking drops heavy media and tracking requests. CSS stays
// enabled: the challenge flow relies on computed element visibility.
func (s *Scanner) setupResourceBlocking() {
	router := s.browser.HijackRequests()
	blocked := []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.mp4", "*.woff*", "*analytics*", "*doubleclick*"}
	for _, pattern := range blocked {
		router.MustAdd(pattern, func(ctx *rod.Hijack) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
		})
	}
	go router.Run()
}

// pageURL returns the current page URL, or "" when it cannot be read.
func (s *Scanner) pageURL() string {
	if s.page == nil {
		return ""
	}
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// closeBrowser tears down the page and the browser process. A failing page
// close must not leave the Chrome process (and its profile lock) behind for
// the next attempt, so every step runs regardless of earlier failures and
// the fields are cleared up front.
func (s *Scanner) closeBrowser() error {
	page, browser := s.page, s.browser
	s.page = nil
	s.browser = nil

	var steps []func() error
	if page != nil {
		steps = append(steps, func() error {
			if err := page.Close(); err != nil {
				return fmt.Errorf("close page: %w", err)
			}
			return nil
		})
	}
	if browser != nil {
		steps = append(steps, func() error {
			if err := browser.Close(); err != nil {
				return fmt.Errorf("close browser: %w", err)
			}
			return nil
		})
	}
	return closeSequence(steps...)
}
