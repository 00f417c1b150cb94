//go:build !unittest

package screener

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
)

// contentReadySelectors are generic main-content landmarks probed after
// navigation. Finding any of them means the page has rendered something
// worth reading; finding none is not fatal.
var contentReadySelectors = []string{
	"main",
	"#main-content",
	".scaffold-layout__main",
	"section.artdeco-card",
	"article",
}

// acquire navigates to the profile page and extracts a normalized text
// representation. Navigation timeouts and missing optional elements degrade
// gracefully; the only failure is extracting too little text, which returns
// ErrInsufficientContent alongside a debug screenshot.
func (s *Scanner) acquire(rawURL string) (*ProfileDocument, error) {
	page := s.page
	if page == nil {
		return nil, ErrBrowserNotReady
	}

	log.Info("loading profile page", "url", rawURL)
	if err := page.Timeout(navigationTimeout).Navigate(rawURL); err != nil {
		// A slow server can time out the navigation with the page
		// partially loaded; the usability gate decides whether enough
		// arrived.
		log.Warn("navigation did not complete, continuing with partial content", "error", err)
	}
	if err := page.Timeout(navigationTimeout).WaitLoad(); err != nil {
		// Partial loads often still carry enough text.
		log.Warn("page load timed out, continuing with partial content", "error", err)
	}

	_ = page.WaitStable(settleWait)
	s.waitContentReady(page)
	// Second settle for late-loading dynamic sections.
	_ = page.WaitStable(settleWait)

	doc := &ProfileDocument{URL: rawURL}
	if info, err := page.Info(); err == nil {
		doc.PageTitle = info.Title
	}
	doc.MetaDescription = metaDescription(page)

	raw := extractTiered([]textTier{
		{name: "main content", get: func() (string, error) { return elementText(page, "main") }},
		{name: "page body", get: func() (string, error) { return elementText(page, "body") }},
		{name: "raw markup", get: page.HTML},
	})
	doc.VisibleText = normalizeText(raw)

	if !doc.Usable() {
		shot := s.captureDebugScreenshot(page)
		if shot != "" {
			return nil, fmt.Errorf("%w: got %d chars (screenshot: %s)",
				ErrInsufficientContent, len(doc.VisibleText), shot)
		}
		return nil, fmt.Errorf("%w: got %d chars", ErrInsufficientContent, len(doc.VisibleText))
	}

	log.Info("profile page extracted", "title", doc.PageTitle, "chars", len(doc.VisibleText))
	return doc, nil
}

// waitContentReady probes the content landmarks until one appears.
func (s *Scanner) waitContentReady(page *rod.Page) {
	for _, sel := range contentReadySelectors {
		if _, err := page.Timeout(elementProbeTimeout).Element(sel); err == nil {
			log.Debug("content landmark found", "selector", sel)
			return
		}
	}
	log.Debug("no content landmark appeared, extracting anyway")
}

// metaDescription reads the page's meta description. Best effort: absence
// is not an error.
func metaDescription(page *rod.Page) string {
	el, err := page.Timeout(elementProbeTimeout).Element(`meta[name="description"]`)
	if err != nil {
		return ""
	}
	content, err := el.Attribute("content")
	if err != nil || content == nil {
		return ""
	}
	return *content
}

// elementText returns the visible text of the first element matching sel.
func elementText(page *rod.Page, sel string) (string, error) {
	el, err := page.Timeout(elementProbeTimeout).Element(sel)
	if err != nil {
		return "", fmt.Errorf("find %q: %w", sel, err)
	}
	return el.Text()
}

// captureDebugScreenshot saves a full-page screenshot for human inspection
// of failed extractions. Best effort; returns the file path or "".
func (s *Scanner) captureDebugScreenshot(page *rod.Page) string {
	data, err := page.Screenshot(true, nil)
	if err != nil {
		log.Debug("debug screenshot failed", "error", err)
		return ""
	}

	name := fmt.Sprintf("screener-debug-%s.png", time.Now().Format("20060102-150405"))
	if err := os.WriteFile(name, data, 0o644); err != nil {
		log.Debug("writing debug screenshot failed", "error", err)
		return ""
	}

	s.lastScreenshot = name
	log.Info("saved debug screenshot", "path", name)
	return name
}
