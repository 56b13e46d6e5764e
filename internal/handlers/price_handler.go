package handlers

import (
	"net/http"

	"parking-client/internal/models"
	"parking-client/internal/store"
)

type PriceHandler struct {
	Store *store.Store
}

func NewPriceHandler(s *store.Store) *PriceHandler {
	return &PriceHandler{Store: s}
}

type pricesRequest struct {
	Prices models.PriceMap `json:"prices"`
}

// Get refreshes the current admin's price table
func (h *PriceHandler) Get(w http.ResponseWriter, r *http.Request) {
	var adminID string
	if u := h.Store.Snapshot().User; u != nil {
		adminID = u.ID
	}

	res := h.Store.FetchPrices(r.Context(), adminID)
	writeResult(w, res, map[string]interface{}{"priceData": h.Store.Snapshot().Prices})
}

func (h *PriceHandler) UpdateDaily(w http.ResponseWriter, r *http.Request) {
	var req pricesRequest
	if !decode(w, r, &req) {
		return
	}

	msg, res := h.Store.UpdateDailyPrices(r.Context(), req.Prices)
	writeResult(w, res, map[string]interface{}{
		"message":   msg,
		"priceData": h.Store.Snapshot().Prices,
	})
}

func (h *PriceHandler) UpdateMonthly(w http.ResponseWriter, r *http.Request) {
	var req pricesRequest
	if !decode(w, r, &req) {
		return
	}

	msg, res := h.Store.UpdateMonthlyPrices(r.Context(), req.Prices)
	writeResult(w, res, map[string]interface{}{
		"message":   msg,
		"priceData": h.Store.Snapshot().Prices,
	})
}
