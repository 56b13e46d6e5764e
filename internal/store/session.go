package store

import (
	"context"
	"log"
	"strings"

	"parking-client/internal/api"
	"parking-client/internal/auth"
	"parking-client/internal/metrics"
	"parking-client/internal/models"
	"parking-client/internal/storage"
)

// RestoreSession rebuilds the session from persistent storage. Hydrated is set
// exactly once per call whatever the outcome. A missing, expired or
// undecodable token ends in the unauthenticated state with storage cleared.
func (s *Store) RestoreSession(ctx context.Context) {
	s.update(func(st *State) {
		if st.Phase != PhaseAuthenticated {
			st.Phase = PhaseRestoring
		}
	})
	defer s.markHydrated()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Session] Error restoring session: %v", r)
		}
	}()

	token := s.readString(ctx, storage.KeyToken)
	role := s.readString(ctx, storage.KeyRole)

	var user models.User
	hasUser := s.readJSON(ctx, storage.KeyUser, &user) && user.ID != ""

	if token == "" || !hasUser {
		s.update(func(st *State) {
			if st.Phase != PhaseAuthenticated {
				st.Phase = PhaseUnauthenticated
			}
		})
		return
	}

	if expired, err := auth.Expired(token, s.now()); expired {
		if err != nil {
			log.Printf("[Session] Stored token unusable: %v", err)
		} else {
			log.Printf("[Session] Stored token expired")
		}
		s.forceLogout(ctx)
		return
	}

	staffPermission := []string{}
	s.readJSON(ctx, storage.KeyStaffPermission, &staffPermission)
	var prices models.PriceTable
	s.readJSON(ctx, storage.KeyPrices, &prices)

	if role == "" {
		role = user.Role
	}

	s.update(func(st *State) {
		st.Phase = PhaseAuthenticated
		st.Token = token
		st.User = &user
		st.Role = role
		st.StaffPermission = staffPermission
		st.Prices = prices.Clone()
	})
	log.Printf("[Session] Restored session for %s (%s)", user.Username, role)

	// server is the source of truth; the cached list only covers the gap
	if user.IsStaff() {
		if res := s.GetStaffPermission(ctx, user.ID); !res.Success {
			log.Printf("[Session] Permission refresh failed, keeping cached list: %s", res.Error)
		}
	}

	if res := s.FetchPrices(ctx, user.ID); !res.Success {
		log.Printf("[Session] Price refresh failed: %s", res.Error)
	}
}

func (s *Store) markHydrated() {
	s.update(func(st *State) {
		st.Hydrated = true
		if st.Phase == PhaseRestoring || st.Phase == PhaseUninitialized {
			st.Phase = PhaseUnauthenticated
		}
	})
}

// Login authenticates against the backend. Permissions (staff) or dashboard
// aggregates (admin) and prices are loaded before the session is published,
// so no reader sees a staff session without its permission set. A logout (or
// a newer login) issued meanwhile wins and nothing is published or persisted.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	done := s.startLoading(GroupAuth)
	defer done()

	seq := s.begin(SlotSession)
	resp, res := s.api.Login(ctx, models.LoginRequest{Username: strings.TrimSpace(username), Password: password})
	if !res.Success {
		log.Printf("[Session] Login failed for %s: %s", username, res.Error)
		return res
	}
	user := resp.User

	s.fetchPrices(ctx, user.ID, resp.Token)

	staffPermission := []string{}
	if user.IsStaff() {
		perms, pres := s.api.GetPermissions(ctx, user.ID, resp.Token)
		if pres.Success {
			staffPermission = perms
		} else {
			// stays logged in with nothing granted
			log.Printf("[Session] Permission fetch failed for staff %s, no capabilities granted: %s", user.Username, pres.Error)
		}
	} else {
		s.getDashboardData(ctx, resp.Token)
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	committed := s.apply(SlotSession, seq, func(st *State) {
		if user.IsStaff() {
			st.Permissions = append([]string{}, staffPermission...)
		}
		st.Phase = PhaseAuthenticated
		st.Hydrated = true
		st.SessionExpired = false
		st.Token = resp.Token
		st.User = user
		st.Role = user.Role
		st.StaffPermission = staffPermission
	})
	if !committed {
		log.Printf("[Session] Login for %s superseded before it completed", user.Username)
		return api.Fail("Login was cancelled")
	}

	s.persistJSON(ctx, storage.KeyUser, user)
	s.persist(ctx, storage.KeyToken, resp.Token)
	s.persistJSON(ctx, storage.KeyStaffPermission, staffPermission)
	s.persist(ctx, storage.KeyRole, user.Role)

	log.Printf("[Session] %s logged in as %s", user.Username, user.Role)
	return api.OK()
}

// LogOut clears persisted keys and resets every cache field in one
// transition. Responses to requests issued before the logout are discarded.
func (s *Store) LogOut(ctx context.Context) {
	s.logOut(ctx, false)
}

func (s *Store) forceLogout(ctx context.Context) {
	metrics.ForcedLogoutsTotal.Inc()
	s.logOut(ctx, true)
}

func (s *Store) logOut(ctx context.Context, expired bool) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.storage.Remove(ctx, storage.SessionKeys...); err != nil {
		log.Printf("[Storage] Failed to remove session keys: %v", err)
	}
	if err := s.storage.Clear(ctx); err != nil {
		log.Printf("[Storage] Failed to clear session store: %v", err)
	}

	s.mu.Lock()
	hydrated := s.state.Hydrated
	loading := s.state.Loading
	s.invalidateAll()
	s.state = emptyState()
	s.state.Phase = PhaseUnauthenticated
	s.state.Hydrated = hydrated
	s.state.SessionExpired = expired
	s.state.Loading = loading
	s.mu.Unlock()
	s.notify()

	if expired {
		log.Println("[Session] Session expired, logged out")
	} else {
		log.Println("[Session] Logged out")
	}
}

// Signup registers a new account. It does not log in.
func (s *Store) Signup(ctx context.Context, username, email, password string) Result {
	done := s.startLoading(GroupAuth)
	defer done()

	res := s.api.Register(ctx, models.SignupRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if !res.Success {
		log.Printf("[Session] Signup failed for %s: %s", username, res.Error)
	}
	return res
}

// CheckExpiry forces a logout when the current token is expired or cannot be
// decoded. It reports whether a logout happened.
func (s *Store) CheckExpiry(ctx context.Context) bool {
	token := s.Token(ctx)
	if token == "" {
		return false
	}
	expired, err := auth.Expired(token, s.now())
	if !expired {
		return false
	}
	if err != nil {
		log.Printf("[Session] Token unusable: %v", err)
	}
	s.forceLogout(ctx)
	return true
}

// UpdateProfile replaces the current user's record. Password and avatar are
// only sent when set.
func (s *Store) UpdateProfile(ctx context.Context, id, username, newPassword, avatar, oldPassword string) Result {
	_, userID, res := s.session(ctx)
	if !res.Success {
		return res
	}
	if id != "" && userID != "" && id != userID {
		return api.Fail("Cannot update another user's profile")
	}

	user, res := s.api.UpdateProfile(ctx, models.UpdateProfileRequest{
		Username:     strings.TrimSpace(username),
		OldPassword:  oldPassword,
		Password:     newPassword,
		ProfileImage: avatar,
	})
	if !res.Success {
		return res
	}

	s.persistJSON(ctx, storage.KeyUser, user)
	s.update(func(st *State) {
		st.User = user
	})
	return api.OK()
}

// LoadPricesIfNotSet fills an empty in-memory price table from storage
func (s *Store) LoadPricesIfNotSet(ctx context.Context) {
	s.mu.RLock()
	empty := s.state.Prices.IsEmpty()
	s.mu.RUnlock()
	if !empty {
		return
	}

	var prices models.PriceTable
	if !s.readJSON(ctx, storage.KeyPrices, &prices) {
		return
	}
	s.update(func(st *State) {
		if st.Prices.IsEmpty() {
			st.Prices = prices.Clone()
		}
	})
}

func (s *Store) readString(ctx context.Context, key string) string {
	v, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		log.Printf("[Storage] Failed to read %s: %v", key, err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *Store) readJSON(ctx context.Context, key string, v any) bool {
	ok, err := storage.GetJSON(ctx, s.storage, key, v)
	if err != nil {
		log.Printf("[Storage] Failed to read %s: %v", key, err)
		return false
	}
	return ok
}
