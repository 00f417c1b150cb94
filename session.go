package screener

import (
	"fmt"
	"os"
	"path/filepath"
)

// SessionStore resolves the on-disk Chrome profile directory that keeps
// cookies and login state between runs. The directory is created on first
// use, reused indefinitely, and never pruned.
//
// Chrome locks the profile while it runs, so a session directory must only
// be used by one acquisition at a time. Callers that parallelize scans need
// a distinct store per scan, or no session at all.
type SessionStore struct {
	// Root overrides the default location under the operator's home
	// directory. Mainly useful for tests.
	Root string
}

// NewSessionStore returns a store rooted at ~/.linkedin-screener.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Resolve returns the browser profile directory, creating it if absent.
// The path is deterministic so cookies survive process restarts. Filesystem
// errors here are fatal to the whole run; there is no recovery path.
func (st *SessionStore) Resolve() (string, error) {
	root := st.Root
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve session dir: %w", err)
		}
		root = filepath.Join(home, ".linkedin-screener")
	}

	dir := filepath.Join(root, "chrome-profile")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	return dir, nil
}
