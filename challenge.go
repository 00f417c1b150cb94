package screener

import "strings"

const (
	linkedInBaseURL = "https://www.linkedin.com"
	feedURL         = linkedInBaseURL + "/feed/"
)

// challengeInputSelectors locates the verification-code input on a two-step
// checkpoint page, in decreasing order of specificity. Earlier entries are
// more targeted and less likely to hit decoy or hidden fields; hidden and
// "resend" controls are excluded outright.
var challengeInputSelectors = []string{
	`input#input__phone_verification_pin`,
	`input#input__email_verification_pin`,
	`input[name="pin"]:not([type="hidden"])`,
	`input[autocomplete="one-time-code"]`,
	`input[maxlength="6"]:not([type="hidden"]):not([id*="resend"])`,
	`input[type="tel"]`,
	`input[type="number"]:not([name*="resend"])`,
}

// challengeSubmitSelectors locates the button that submits the code. If
// none matches, the flow falls back to pressing Enter on the input itself.
var challengeSubmitSelectors = []string{
	`button#two-step-submit-button`,
	`button[data-litms-control-urn*="two-step"]`,
	`button[type="submit"]`,
	`button.form__submit`,
}

// firstVisible walks locator strategies in priority order and returns the
// first element that is actually visible on the page. lookup returns the
// elements matching one selector in DOM order; visible reports whether an
// element is rendered. A hidden element matched by an earlier strategy
// never wins over a visible match found later.
func firstVisible[E any](selectors []string, lookup func(string) []E, visible func(E) bool) (E, string, bool) {
	for _, sel := range selectors {
		for _, el := range lookup(sel) {
			if visible(el) {
				return el, sel, true
			}
		}
	}
	var zero E
	return zero, "", false
}

// isLoginURL reports whether a URL is LinkedIn's login or auth-wall surface.
func isLoginURL(u string) bool {
	return containsAny(u, "/login", "/uas/login", "/authwall", "/signup")
}

// isCheckpointURL reports whether a URL is a verification checkpoint.
func isCheckpointURL(u string) bool {
	return containsAny(u, "/checkpoint/", "/challenge")
}

// isFeedURL reports whether a URL is the authenticated home feed.
func isFeedURL(u string) bool {
	return strings.Contains(u, "/feed")
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
