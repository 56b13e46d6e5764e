package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"parking-client/internal/models"
	"parking-client/internal/store"
)

type PassHandler struct {
	Store *store.Store
}

func NewPassHandler(s *store.Store) *PassHandler {
	return &PassHandler{Store: s}
}

type extendRequest struct {
	Months int `json:"months"`
}

func (h *PassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form models.MonthlyPassForm
	if !decode(w, r, &form) {
		return
	}

	created, res := h.Store.CreateMonthlyPass(r.Context(), form)
	writeResult(w, res, map[string]interface{}{
		"pass":   created.Pass,
		"qrCode": created.QRCode,
	})
}

// List returns ?status=active (default) or expired
func (h *PassHandler) List(w http.ResponseWriter, r *http.Request) {
	status := queryDefault(r.URL.Query().Get("status"), models.PassActive)
	passes, res := h.Store.GetMonthlyPass(r.Context(), status)
	writeResult(w, res, map[string]interface{}{
		"status": status,
		"passes": passes,
	})
}

func (h *PassHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if !decode(w, r, &req) {
		return
	}

	res := h.Store.ExtendMonthlyPass(r.Context(), mux.Vars(r)["id"], req.Months)
	writeResult(w, res, map[string]interface{}{"passes": h.Store.Snapshot().MonthlyPassActive})
}
