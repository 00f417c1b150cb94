//go:build unittest

package screener

import (
	"context"
	"fmt"
)

func (s *Scanner) attempt(ctx context.Context, req ScanRequest) (*ProfileDocument, error) {
	return nil, fmt.Errorf("attempt: %w (build tag: unittest)", ErrBrowserNotReady)
}

func (s *Scanner) launchBrowser(ctx context.Context, req ScanRequest) error {
	return fmt.Errorf("browser: %w (build tag: unittest)", ErrBrowserNotReady)
}

func (s *Scanner) setupResourceBlocking() {}

func (s *Scanner) pageURL() string { return "" }

func (s *Scanner) closeBrowser() error {
	s.page = nil
	s.browser = nil
	return nil
}
