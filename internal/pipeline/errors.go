package pipeline

import (
	"errors"
	"fmt"
)

// ErrRobotsDisallowed marks URLs the host's robots.txt forbids. The
// fetch is skipped, counted, and the source carries on.
var ErrRobotsDisallowed = errors.New("robots.txt disallows fetch")

// StatusError reports a non-2xx response
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// retryableStatus reports whether a response code is worth one more try
func retryableStatus(code int) bool {
	return code == 429 || code >= 500
}
