package middleware

import (
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout caps end-to-end handling per request. Cascade operations walk a
// whole subtree inside the request, so this is also the upper bound on how
// long a single cascade may run.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body := `{"success":false,"error":{"code":"REQUEST_TIMEOUT","message":"request timed out"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, body)
	}
}
