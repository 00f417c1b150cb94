package screener

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ValidateProfileURL checks that a URL points at a LinkedIn member profile.
func ValidateProfileURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfileURL, err)
	}
	if !strings.Contains(u.Host, "linkedin.com") || !strings.Contains(u.Path, "/in/") {
		return fmt.Errorf("%w: %q", ErrInvalidProfileURL, rawURL)
	}
	return nil
}

// LoadProfileFromFile builds a ProfileDocument from operator-provided text,
// bypassing scraping entirely. The content is passed through as-is except
// for the maximum length bound.
func LoadProfileFromFile(path, rawURL string) (*ProfileDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile file: %w", err)
	}
	return &ProfileDocument{
		URL:             rawURL,
		PageTitle:       "Manually provided",
		MetaDescription: "Profile data loaded from file",
		VisibleText:     truncateText(string(data), maxVisibleText),
	}, nil
}
