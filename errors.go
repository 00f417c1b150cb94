package screener

import "errors"

var (
	ErrBrowserNotReady     = errors.New("screener: browser not initialized")
	ErrInsufficientContent = errors.New("screener: insufficient content extracted")
	ErrRetriesExhausted    = errors.New("screener: retries exhausted")
	ErrInvalidProfileURL   = errors.New("screener: not a linkedin profile url")
	ErrModelUnavailable    = errors.New("screener: model unavailable")
)
