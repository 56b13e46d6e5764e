package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"parking-client/internal/gate"
	"parking-client/internal/models"
	"parking-client/internal/store"
	"parking-client/pkg/utils"
)

type SessionHandler struct {
	Store *store.Store
}

func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{Store: s}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	OldPassword string `json:"oldPassword"`
	Avatar      string `json:"avatar"`
}

// State returns the whole current snapshot
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Store.Snapshot())
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	res := h.Store.Login(r.Context(), req.Username, req.Password)
	writeResult(w, res, map[string]interface{}{"state": h.Store.Snapshot()})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Store.LogOut(r.Context())
	writeResult(w, store.Result{Success: true}, nil)
}

func (h *SessionHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	writeResult(w, h.Store.Signup(r.Context(), req.Username, req.Email, req.Password), nil)
}

// Restore re-reads the persisted session (the app start path)
func (h *SessionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.Store.RestoreSession(r.Context())
	utils.JSON(w, http.StatusOK, h.Store.Snapshot())
}

// Access reports the gate decision for one capability so the UI can hide
// entries it cannot open
func (h *SessionHandler) Access(w http.ResponseWriter, r *http.Request) {
	capability := mux.Vars(r)["capability"]
	st := h.Store.Snapshot()
	decision := gate.Check(capability, st.Role, st.StaffPermission, st.Hydrated)
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"capability": capability,
		"decision":   decision.String(),
		"allowed":    decision == gate.Allowed,
	})
}

// Vocabulary lists every capability in editor order
func (h *SessionHandler) Vocabulary(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{"permissions": models.Permissions})
}

func (h *SessionHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" {
		utils.Error(w, http.StatusBadRequest, "Username is required")
		return
	}

	res := h.Store.UpdateProfile(r.Context(), req.ID, req.Username, req.Password, req.Avatar, req.OldPassword)
	writeResult(w, res, map[string]interface{}{"user": h.Store.Snapshot().User})
}

// Profile returns the signed-in user
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	st := h.Store.Snapshot()
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    st.User,
		"role":    st.Role,
	})
}
