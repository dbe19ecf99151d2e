package api

import (
	"context"
	"net/http"
	"strconv"
)

// Identity is the authenticated caller, as asserted by the upstream auth
// gateway. This service trusts the gateway headers as given; token
// verification happens before requests reach it.
type Identity struct {
	UserID int64
	Role   string
}

type identityKey struct{}

// identityFrom returns the caller identity stored by requireUser.
func identityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// requireUser rejects requests without a gateway-asserted user and stores
// the identity in the request context.
func requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		if err != nil || userID <= 0 {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		id := Identity{UserID: userID, Role: r.Header.Get("X-User-Role")}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	}
}

// requireAdmin additionally demands the admin role.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request) {
		if identityFrom(r.Context()).Role != "admin" {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}
