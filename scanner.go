// Package screener acquires LinkedIn profile pages through a controlled
// browser session and prepares them for authenticity analysis.
package screener

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/go-rod/rod"
	"golang.org/x/net/proxy"
)

// Scanner acquires profile pages. It owns the browser process for the
// duration of one acquisition attempt and tears it down between attempts.
//
// A Scanner is not safe for concurrent use: one acquisition at a time, and
// one scanner per session directory.
type Scanner struct {
	proxy     string
	userAgent string
	sessions  *SessionStore
	codes     CodeProvider
	backoff   time.Duration

	// client serves browserless HTTP fetches. It shares proxy settings
	// with the browser launcher.
	client *resty.Client

	browser *rod.Browser
	page    *rod.Page

	authState      AuthState
	lastScreenshot string

	// attemptFunc runs one full acquisition attempt. Replaceable for
	// testing.
	attemptFunc func(ctx context.Context, req ScanRequest) (*ProfileDocument, error)
}

// defaultTransport returns an http.Transport tuned for scraping: connection
// pooling, keep-alive, and TLS handshake caching.
func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// New creates a Scanner with sensible defaults. No browser is launched
// until Scan runs an attempt.
func New() *Scanner {
	s := &Scanner{
		userAgent: defaultUserAgent,
		sessions:  NewSessionStore(),
		codes:     &TerminalCodeProvider{In: os.Stdin, Out: os.Stderr},
		backoff:   retryBackoff,
		client: resty.New().
			SetTimeout(20 * time.Second).
			SetTransport(defaultTransport()),
	}
	s.attemptFunc = s.attempt
	return s
}

// WithCodeProvider sets the source of one-time verification codes.
func (s *Scanner) WithCodeProvider(p CodeProvider) *Scanner {
	s.codes = p
	return s
}

// WithSessionStore overrides where the persistent browser profile lives.
func (s *Scanner) WithSessionStore(st *SessionStore) *Scanner {
	s.sessions = st
	return s
}

// WithBackoff sets the fixed delay between acquisition attempts.
func (s *Scanner) WithBackoff(d time.Duration) *Scanner {
	s.backoff = d
	return s
}

// SetProxy configures an HTTP/HTTPS or SOCKS5 proxy for both the browser
// launcher and the static HTTP client.
func (s *Scanner) SetProxy(proxyAddr string) error {
	if proxyAddr == "" {
		s.client.SetTransport(defaultTransport())
		s.proxy = ""
		return nil
	}

	u, err := url.Parse(proxyAddr)
	if err != nil {
		return fmt.Errorf("parse proxy url: %w", err)
	}

	base := defaultTransport()

	switch u.Scheme {
	case "http", "https":
		base.Proxy = http.ProxyURL(u)
	case "socks5":
		var auth *proxy.Auth
		if u.User != nil {
			pass, _ := u.User.Password()
			auth = &proxy.Auth{User: u.User.Username(), Password: pass}
		}
		dialer, err := proxy.SOCKS5("tcp", u.Host, auth, proxy.Direct)
		if err != nil {
			return fmt.Errorf("socks5 proxy: %w", err)
		}
		dc, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return fmt.Errorf("socks5: context dialer not supported")
		}
		base.DialContext = dc.DialContext
	default:
		return fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
	}

	s.client.SetTransport(base)
	s.proxy = proxyAddr
	return nil
}

// AuthState reports where the last login flow ended up.
func (s *Scanner) AuthState() AuthState {
	return s.authState
}

// LastScreenshot returns the path of the most recent debug screenshot, or
// "" if none was captured.
func (s *Scanner) LastScreenshot() string {
	return s.lastScreenshot
}

// Scan acquires a profile page under a bounded retry policy. Each attempt
// launches a fresh browser, optionally authenticates, extracts text, and
// tears the browser down again. A document is only returned when its text
// clears the usability threshold; anything less retries until the budget of
// req.Retries extra attempts is spent, then fails with ErrRetriesExhausted.
//
// Cancellation is layered externally: bound the whole call through ctx.
func (s *Scanner) Scan(ctx context.Context, req ScanRequest) (*ProfileDocument, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("scan: profile url is required")
	}
	if req.Retries < 0 {
		return nil, fmt.Errorf("scan: retries must be non-negative, got %d", req.Retries)
	}

	// The terminal error only reports diagnostics captured by this run.
	s.lastScreenshot = ""

	// Session directory problems are fatal before the first attempt;
	// everything downstream of here degrades instead of aborting.
	if req.UseSession {
		if _, err := s.sessions.Resolve(); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
	}

	attempts := req.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			log.Info("retrying acquisition", "attempt", attempt, "of", attempts, "backoff", s.backoff)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff):
			}
		}

		doc, err := s.attemptFunc(ctx, req)
		if err == nil && doc.Usable() {
			return doc, nil
		}
		if err != nil {
			log.Warn("acquisition attempt failed", "attempt", attempt, "error", err)
		} else {
			log.Warn("acquisition attempt yielded too little text",
				"attempt", attempt, "chars", len(doc.VisibleText))
		}
	}

	if s.lastScreenshot != "" {
		return nil, fmt.Errorf("%w after %d attempts (last screenshot: %s)",
			ErrRetriesExhausted, attempts, s.lastScreenshot)
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrRetriesExhausted, attempts)
}

// Close releases all resources including the browser if one is running.
func (s *Scanner) Close() error {
	return s.closeBrowser()
}

// closeSequence runs teardown steps in order. A failing step never skips
// the ones after it; all failures are reported together.
func closeSequence(steps ...func() error) error {
	var errs []error
	for _, step := range steps {
		if err := step(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
