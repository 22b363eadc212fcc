package http

import (
	"crypto/subtle"
	"net/http"
	"sync/atomic"

	"khata/internal/core"
	applog "khata/internal/log"
)

// Header names set by the identity gateway. The gateway terminates the
// user-facing session and forwards requests with the resolved identity;
// this service never sees credentials.
const (
	headerGatewayKey = "X-Gateway-Key"
	headerUserID     = "X-User-Id"
	headerUserEmail  = "X-User-Email"
	headerUserName   = "X-User-Name"
)

// identityHandler is a handler that receives the authenticated caller.
type identityHandler func(w http.ResponseWriter, r *http.Request, ident core.Identity)

// withIdentity rejects requests that do not carry the shared gateway
// key and a user id. Everything behind it can trust the identity.
func (s *Server) withIdentity(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLog := applog.FromContext(r.Context())

		key := r.Header.Get(headerGatewayKey)
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.gatewayKey)) != 1 {
			atomic.AddInt64(&s.metrics.authFailures, 1)
			reqLog.Warn("Rejected request with bad gateway key",
				applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		userID := r.Header.Get(headerUserID)
		if userID == "" {
			atomic.AddInt64(&s.metrics.authFailures, 1)
			reqLog.Warn("Rejected request without user id",
				applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}

		ident := core.Identity{
			UserID: core.UserID(userID),
			Email:  r.Header.Get(headerUserEmail),
			Name:   r.Header.Get(headerUserName),
		}
		next(w, r, ident)
	}
}
