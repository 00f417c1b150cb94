package screener

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchStatic retrieves a profile page with a plain HTTP GET, no browser.
// Public profiles sometimes render enough server-side content for analysis,
// and this path also works where Chrome is unavailable. It applies the same
// normalization and usability threshold as the browser path.
func (s *Scanner) FetchStatic(ctx context.Context, rawURL string) (*ProfileDocument, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", s.userAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("static fetch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("static fetch: unexpected status %d", resp.StatusCode())
	}

	gq, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse profile html: %w", err)
	}

	doc := &ProfileDocument{
		URL:       rawURL,
		PageTitle: strings.TrimSpace(gq.Find("title").First().Text()),
	}
	if desc, ok := gq.Find(`meta[name="description"]`).Attr("content"); ok {
		doc.MetaDescription = desc
	}
	doc.VisibleText = normalizeText(gq.Find("body").Text())

	if !doc.Usable() {
		return nil, fmt.Errorf("%w: static fetch yielded %d chars",
			ErrInsufficientContent, len(doc.VisibleText))
	}
	return doc, nil
}
