package middleware

import (
	"net/http"
	"time"
)

// DefaultTimeout is used when Timeout gets a duration that is not positive.
const DefaultTimeout = 30 * time.Second

// Timeout answers 503 when the handler runs longer than duration. The request
// context carries the same deadline, so an expansion stops between cases.
func Timeout(duration time.Duration) Middleware {
	if duration <= 0 {
		duration = DefaultTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, duration, "request timed out")
	}
}
