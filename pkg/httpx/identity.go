package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// UserIDHeader is set by the authenticating gateway in front of this service.
const UserIDHeader = "X-User-ID"

// UserEmailHeader optionally carries the user's verified email address.
const UserEmailHeader = "X-User-Email"

type identityKey struct{}

type identity struct {
	userID uuid.UUID
	email  string
}

// RequireUser rejects requests without a valid user header. The gateway
// terminates authentication, so a missing or malformed header means the
// request bypassed it.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.Header.Get(UserIDHeader))
		if err != nil {
			Error(w, ErrUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, identity{
			userID: userID,
			email:  r.Header.Get(UserEmailHeader),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user's ID. The bool is false on
// routes that skipped RequireUser.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(identityKey{}).(identity)
	return id.userID, ok
}

// UserEmailFromContext returns the authenticated user's email, if the gateway
// provided one.
func UserEmailFromContext(ctx context.Context) string {
	id, _ := ctx.Value(identityKey{}).(identity)
	return id.email
}
