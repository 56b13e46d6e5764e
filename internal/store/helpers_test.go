package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parking-client/internal/api"
	"parking-client/internal/models"
	"parking-client/internal/storage"

	"github.com/golang-jwt/jwt/v5"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func makeToken(t *testing.T, exp int64) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func validToken(t *testing.T) string {
	return makeToken(t, testNow.Add(24*time.Hour).Unix())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type fixture struct {
	store   *Store
	storage *storage.MemoryStore
	mux     *http.ServeMux
	server  *httptest.Server
}

// newFixture starts a fake backend; routes are registered on f.mux by each test
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mem := storage.NewMemoryStore()
	s := New(api.NewClient(srv.URL, 5*time.Second, nil), mem)
	s.SetClock(func() time.Time { return testNow })
	return &fixture{store: s, storage: mem, mux: mux, server: srv}
}

// loginAs publishes an authenticated session without going through the API
func (f *fixture) loginAs(t *testing.T, user models.User, perms []string) {
	t.Helper()
	tok := validToken(t)
	f.store.update(func(st *State) {
		st.Phase = PhaseAuthenticated
		st.Hydrated = true
		st.Token = tok
		u := user
		st.User = &u
		st.Role = user.Role
		st.StaffPermission = perms
	})
	ctx := context.Background()
	f.storage.Set(ctx, storage.KeyToken, tok)
	storage.SetJSON(ctx, f.storage, storage.KeyUser, user)
	f.storage.Set(ctx, storage.KeyRole, user.Role)
}
