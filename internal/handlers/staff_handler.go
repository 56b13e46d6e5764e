package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"parking-client/internal/models"
	"parking-client/internal/store"
	"parking-client/pkg/utils"
)

type StaffHandler struct {
	Store *store.Store
}

func NewStaffHandler(s *store.Store) *StaffHandler {
	return &StaffHandler{Store: s}
}

type staffRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Building models.Building `json:"building"`
}

type permissionsRequest struct {
	Permissions []string `json:"permissions"`
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staffs, res := h.Store.GetAllStaffs(r.Context())
	writeResult(w, res, map[string]interface{}{"staffs": staffs})
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if !decode(w, r, &req) {
		return
	}

	staff, res := h.Store.CreateStaff(r.Context(), req.Username, req.Password, req.Building)
	writeResult(w, res, map[string]interface{}{"staff": staff})
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if !decode(w, r, &req) {
		return
	}

	staff, res := h.Store.UpdateStaff(r.Context(), mux.Vars(r)["id"], models.UpdateStaffRequest{
		Username: req.Username,
		Building: req.Building,
		Password: req.Password,
	})
	writeResult(w, res, map[string]interface{}{"staff": staff})
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.Store.DeleteStaff(r.Context(), mux.Vars(r)["id"]), nil)
}

func (h *StaffHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	res := h.Store.GetStaffPermission(r.Context(), mux.Vars(r)["id"])
	writeResult(w, res, map[string]interface{}{"permissions": h.Store.Snapshot().Permissions})
}

func (h *StaffHandler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	var req permissionsRequest
	if !decode(w, r, &req) {
		return
	}

	perms, res := h.Store.SetStaffPermission(r.Context(), mux.Vars(r)["id"], req.Permissions)
	writeResult(w, res, map[string]interface{}{"permissions": perms})
}

// Revenue is the staff revenue screen
func (h *StaffHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	res := h.Store.FetchRevenueReport(r.Context(), mux.Vars(r)["id"])
	st := h.Store.Snapshot()
	writeResult(w, res, map[string]interface{}{
		"vehicles":      st.SelectedStaffRevenue,
		"revenue":       st.TotalRevenue,
		"totalVehicles": st.TotalVehicles,
	})
}

// Get returns one roster entry from the cache, fetching the roster when the
// entry is not there yet
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if staff, ok := findStaff(h.Store.Snapshot().Staffs, id); ok {
		writeResult(w, store.Result{Success: true}, map[string]interface{}{
			"staff":    staff,
			"building": staff.BuildingName(),
		})
		return
	}

	staffs, res := h.Store.GetAllStaffs(r.Context())
	if !res.Success {
		writeResult(w, res, nil)
		return
	}
	staff, ok := findStaff(staffs, id)
	if !ok {
		utils.Error(w, http.StatusNotFound, "Staff not found")
		return
	}
	writeResult(w, res, map[string]interface{}{
		"staff":    staff,
		"building": staff.BuildingName(),
	})
}

// Hub is the staff settings landing screen
func (h *StaffHandler) Hub(w http.ResponseWriter, r *http.Request) {
	st := h.Store.Snapshot()
	writeResult(w, store.Result{Success: true}, map[string]interface{}{
		"user":       st.User,
		"staffCount": len(st.Staffs),
	})
}

func findStaff(staffs []models.Staff, id string) (models.Staff, bool) {
	for _, s := range staffs {
		if s.ID == id {
			return s, true
		}
	}
	return models.Staff{}, false
}
