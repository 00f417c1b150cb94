package screener

import (
	"strings"

	"github.com/charmbracelet/log"
)

// textTier is one candidate text extraction, evaluated lazily so cheap
// tiers short-circuit expensive ones.
type textTier struct {
	name string
	get  func() (string, error)
}

// extractTiered runs tiers in priority order and returns the output of the
// first one that yields non-trivial text. A failing tier is a diagnostic,
// never an abort.
func extractTiered(tiers []textTier) string {
	for _, tier := range tiers {
		text, err := tier.get()
		if err != nil {
			log.Debug("text extraction tier failed", "tier", tier.name, "error", err)
			continue
		}
		if len(strings.TrimSpace(text)) > minTierText {
			log.Debug("text extraction tier selected", "tier", tier.name, "chars", len(text))
			return text
		}
	}
	return ""
}

// collapseWhitespace reduces any run of whitespace to a single space and
// trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText caps s at max characters, leaving shorter input untouched.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// normalizeText is the full pipeline applied to scraped page text.
func normalizeText(s string) string {
	return truncateText(collapseWhitespace(s), maxVisibleText)
}
