package middleware

import (
	"net/http"

	"parking-client/internal/gate"
	"parking-client/internal/metrics"
	"parking-client/internal/store"
	"parking-client/pkg/utils"
)

// SessionSource is the part of the store the gate reads
type SessionSource interface {
	Snapshot() store.State
}

// AccessDenied is the body of every denied screen request
var AccessDenied = map[string]string{
	"error":   "Access Denied",
	"message": "You are not authorized to view this page.",
}

// RequireSession lets the request through once a session is active.
// Before hydration it answers 503 loading; without a session 401.
func RequireSession(s SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := s.Snapshot()
			if !st.Hydrated {
				utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
				return
			}
			if !st.IsAuthenticated() {
				utils.Error(w, http.StatusUnauthorized, "Not logged in")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability guards a screen. The wrapped handler only runs when the
// gate allows it, so a denied screen never triggers a fetch.
func RequireCapability(s SessionSource, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := s.Snapshot()
			if st.Hydrated && !st.IsAuthenticated() {
				metrics.GateDecisionsTotal.WithLabelValues(capability, "unauthenticated").Inc()
				utils.Error(w, http.StatusUnauthorized, "Not logged in")
				return
			}

			decision := gate.Check(capability, st.Role, st.StaffPermission, st.Hydrated)
			metrics.GateDecisionsTotal.WithLabelValues(capability, decision.String()).Inc()

			switch decision {
			case gate.Loading:
				utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			case gate.Allowed:
				next.ServeHTTP(w, r)
			default:
				utils.JSON(w, http.StatusForbidden, AccessDenied)
			}
		})
	}
}
