package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go-workspace-service/internal/model"
)

type contextKey string

const requesterContextKey contextKey = "requester_id"

// IdentityMiddleware reads the requester's id from a trusted header set by
// the gateway in front of this service. There is no token validation here;
// the gateway is the authentication boundary.
type IdentityMiddleware struct {
	header string
}

func NewIdentityMiddleware(header string) *IdentityMiddleware {
	if strings.TrimSpace(header) == "" {
		header = "User-National-Id"
	}
	return &IdentityMiddleware{header: header}
}

// Extract stores the header value, possibly empty, into the request context.
// Routes that tolerate anonymous callers use only this.
func (m *IdentityMiddleware) Extract(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requesterID := strings.TrimSpace(r.Header.Get(m.header))
		ctx := context.WithValue(r.Context(), requesterContextKey, requesterID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity rejects requests whose identity header is missing or blank.
func (m *IdentityMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requesterID, _ := RequesterFromContext(r.Context())
		if requesterID == "" {
			writeUnauthenticated(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequesterFromContext(ctx context.Context) (string, bool) {
	requesterID, ok := ctx.Value(requesterContextKey).(string)
	return requesterID, ok && requesterID != ""
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    "UNAUTHENTICATED",
			Message: "identity header is required",
		},
	})
}
