package screener

import "time"

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

const (
	// DefaultRetries is the number of extra acquisition attempts after the
	// first one.
	DefaultRetries = 2

	// maxVisibleText bounds the extracted text handed to the reasoning
	// service. minVisibleText is the usability threshold: anything at or
	// below it counts as a failed acquisition. minTierText is the bar an
	// extraction tier must clear before its output is accepted.
	maxVisibleText = 8000
	minVisibleText = 50
	minTierText    = 100

	navigationTimeout     = 30 * time.Second
	fieldWaitTimeout      = 10 * time.Second
	elementProbeTimeout   = 3 * time.Second
	settleWait            = 2 * time.Second
	postSubmitWait        = 5 * time.Second
	checkpointRecheckWait = 15 * time.Second
	manualChallengeWait   = 60 * time.Second
	retryBackoff          = 3 * time.Second
)

// Credentials is a LinkedIn email/password pair. It is held in memory for
// the lifetime of the process and never written anywhere.
type Credentials struct {
	Email    string
	Password string
}

// ScanRequest describes one profile acquisition.
type ScanRequest struct {
	// URL is the profile page to acquire.
	URL string
	// Headless hides the browser window. Visible mode is useful when the
	// operator has to click through a verification step by hand.
	Headless bool
	// UseSession reuses the persistent browser profile so login state
	// survives across runs.
	UseSession bool
	// Credentials enables the authenticated path when non-nil.
	Credentials *Credentials
	// Retries is the number of extra attempts after the first. Must be
	// non-negative.
	Retries int
}

// ProfileDocument is the normalized text representation of a profile page.
// The JSON field names are the wire contract with the reasoning service.
type ProfileDocument struct {
	URL             string `json:"url"`
	PageTitle       string `json:"page_title"`
	MetaDescription string `json:"meta_description"`
	VisibleText     string `json:"visible_text"`
}

// Usable reports whether enough text was extracted for analysis.
func (d *ProfileDocument) Usable() bool {
	return d != nil && len(d.VisibleText) > minVisibleText
}

// AuthState tracks where the login flow ended up. ChallengeTimedOut and
// LoginUncertain are soft outcomes: acquisition continues without the
// benefit of being logged in.
type AuthState int

const (
	AuthNotStarted AuthState = iota
	AuthCredentialsSubmitted
	AuthChallengeDetected
	AuthChallengeResolved
	AuthChallengeTimedOut
	AuthLoggedIn
	AuthLoginUncertain
)

func (s AuthState) String() string {
	switch s {
	case AuthNotStarted:
		return "not started"
	case AuthCredentialsSubmitted:
		return "credentials submitted"
	case AuthChallengeDetected:
		return "challenge detected"
	case AuthChallengeResolved:
		return "challenge resolved"
	case AuthChallengeTimedOut:
		return "challenge timed out"
	case AuthLoggedIn:
		return "logged in"
	case AuthLoginUncertain:
		return "login uncertain"
	default:
		return "unknown"
	}
}
