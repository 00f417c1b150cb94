//go:build unittest

package screener

import "github.com/charmbracelet/log"

func (s *Scanner) ensureLoggedIn(creds *Credentials) bool {
	log.Debug("login skipped (build tag: unittest)")
	return false
}
