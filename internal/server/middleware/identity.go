package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// UserHeader carries the authenticated user's numeric ID. Authentication
// itself happens upstream (gateway or session layer); this service trusts the
// header.
const UserHeader = "X-User-ID"

type userKey struct{}

// Identity returns middleware that parses UserHeader into the request
// context. A malformed header is rejected with 400; a missing one leaves the
// request anonymous.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(UserHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeJSONError(w, http.StatusBadRequest, "invalid "+UserHeader+" header")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID returns the caller's ID, if the request carried one.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userKey{}).(int64)
	return id, ok
}
