package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parking-client/internal/models"
	"parking-client/internal/store"
)

type fixedSession store.State

func (f fixedSession) Snapshot() store.State { return store.State(f) }

func session(hydrated bool, role string, perms ...string) fixedSession {
	st := store.State{Hydrated: hydrated, Role: role, StaffPermission: perms}
	if role != "" {
		st.Phase = store.PhaseAuthenticated
		st.Token = "t"
	} else if hydrated {
		st.Phase = store.PhaseUnauthenticated
	}
	return fixedSession(st)
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name   string
		sess   fixedSession
		cap    string
		status int
		ran    bool
	}{
		{"not hydrated", session(false, ""), models.PermDashboard, http.StatusServiceUnavailable, false},
		{"logged out", session(true, ""), models.PermDashboard, http.StatusUnauthorized, false},
		{"admin any", session(true, models.RoleAdmin), models.PermDashboard, http.StatusOK, true},
		{"admin unknown capability", session(true, models.RoleAdmin), "reports", http.StatusOK, true},
		{"staff granted", session(true, models.RoleStaff, models.PermVehicles), models.PermVehicles, http.StatusOK, true},
		{"staff missing", session(true, models.RoleStaff, models.PermVehicles), models.PermDashboard, http.StatusForbidden, false},
		{"staff case differs", session(true, models.RoleStaff, "viewstaff"), models.PermViewStaff, http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ran := false
			h := RequireCapability(tt.sess, tt.cap)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ran = true
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screen", nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if ran != tt.ran {
				t.Fatalf("handler ran = %v, want %v", ran, tt.ran)
			}
		})
	}
}

func TestDeniedBody(t *testing.T) {
	h := RequireCapability(session(true, models.RoleStaff), models.PermDashboard)(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Access Denied" || body["message"] != "You are not authorized to view this page." {
		t.Fatalf("body = %v", body)
	}
}

func TestLoadingBody(t *testing.T) {
	h := RequireSession(session(false, ""))(http.NotFoundHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if rec.Code != http.StatusServiceUnavailable || body["status"] != "loading" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
}

func TestPanicRecovery(t *testing.T) {
	h := PanicRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequestLoggingSetsRequestID(t *testing.T) {
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}
