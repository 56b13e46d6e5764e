package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"parking-client/internal/models"
	"parking-client/internal/store"
	"parking-client/internal/timeutil"
	"parking-client/pkg/utils"
)

type VehicleHandler struct {
	Store *store.Store
}

func NewVehicleHandler(s *store.Store) *VehicleHandler {
	return &VehicleHandler{Store: s}
}

type checkOutRequest struct {
	TokenID string `json:"tokenId"`
	Preview bool   `json:"preview"`
}

// List fetches ?kind=checkins|checkouts|all&vehicle=<type|all> and applies
// the optional ?search= and ?date=YYYY-MM-DD filters to the cached list
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("staffId"))
}

// StaffList is the same list scoped to the staff member in the path
func (h *VehicleHandler) StaffList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, mux.Vars(r)["id"])
}

func (h *VehicleHandler) list(w http.ResponseWriter, r *http.Request, staffID string) {
	q := r.URL.Query()
	kind := queryDefault(q.Get("kind"), models.ListAll)
	vehicle := queryDefault(q.Get("vehicle"), string(models.VehicleAll))

	day, ok := parseDay(w, q.Get("date"))
	if !ok {
		return
	}

	res := h.Store.VehicleList(r.Context(), vehicle, kind, staffID)
	list := store.FilterVehicles(h.Store.Snapshot().VehicleList, q.Get("search"), day)
	writeResult(w, res, map[string]interface{}{
		"vehicles": list,
		"count":    len(list),
	})
}

// Events returns the check-in and checkout lists side by side
func (h *VehicleHandler) Events(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	vehicle := queryDefault(q.Get("vehicle"), string(models.VehicleAll))
	staffID := q.Get("staffId")

	res := h.Store.FetchCheckins(r.Context(), vehicle, staffID)
	if cres := h.Store.FetchCheckouts(r.Context(), vehicle, staffID); res.Success {
		res = cres
	}

	st := h.Store.Snapshot()
	writeResult(w, res, map[string]interface{}{
		"checkins":  st.CheckinList,
		"checkouts": st.CheckoutList,
	})
}

func (h *VehicleHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req models.CheckInRequest
	if !decode(w, r, &req) {
		return
	}

	tokenID, res := h.Store.CheckIn(r.Context(), req)
	writeResult(w, res, map[string]interface{}{"tokenId": tokenID})
}

func (h *VehicleHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req checkOutRequest
	if !decode(w, r, &req) {
		return
	}
	if p, err := strconv.ParseBool(r.URL.Query().Get("preview")); err == nil {
		req.Preview = p
	}

	out, res := h.Store.CheckOut(r.Context(), req.TokenID, req.Preview)
	if req.Preview {
		writeResult(w, res, map[string]interface{}{
			"data":              out.Data,
			"needsExtraPayment": out.Data.NeedsExtraPayment(),
		})
		return
	}
	writeResult(w, res, map[string]interface{}{"receipt": out.Receipt})
}

// Today is the staff home summary: own vehicles and revenue for today
func (h *VehicleHandler) Today(w http.ResponseWriter, r *http.Request) {
	res := h.Store.GetStaffTodayVehicles(r.Context())
	if rres := h.Store.GetStaffTodayRevenue(r.Context()); res.Success {
		res = rres
	}

	st := h.Store.Snapshot()
	writeResult(w, res, map[string]interface{}{
		"vehicles": st.StaffTodayVehicles,
		"revenue":  st.StaffTodayRevenue,
	})
}

func queryDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseDay(w http.ResponseWriter, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	day, err := timeutil.ParseDate(value)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return nil, false
	}
	return &day, true
}
