package store

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"parking-client/internal/models"
)

func TestFetchCheckinsFailureEmptiesOnlyItsSlot(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "s1", Role: "staff"}, []string{"vehicles"})
	f.store.update(func(st *State) {
		st.CheckinList = []models.Vehicle{{ID: "old"}}
		st.CheckoutList = []models.Vehicle{{ID: "kept"}}
	})

	f.mux.HandleFunc("/api/checkins", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]any{"message": "db down"})
	})

	res := f.store.FetchCheckins(context.Background(), "car", "")
	if res.Success || res.Error != "db down" {
		t.Fatalf("res = %+v", res)
	}
	st := f.store.Snapshot()
	if len(st.CheckinList) != 0 {
		t.Fatalf("checkins = %+v", st.CheckinList)
	}
	if len(st.CheckoutList) != 1 || st.CheckoutList[0].ID != "kept" {
		t.Fatalf("checkouts = %+v", st.CheckoutList)
	}
}

func TestFetchCheckoutsPassesFilters(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	f.mux.HandleFunc("/api/checkouts", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("vehicle") != "bike" || q.Get("staffId") != "s9" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		writeJSON(w, 200, map[string]any{"vehicles": []map[string]any{{"_id": "7"}}})
	})

	if res := f.store.FetchCheckouts(context.Background(), "Bike", "s9"); !res.Success {
		t.Fatalf("FetchCheckouts: %s", res.Error)
	}
	if got := f.store.Snapshot().CheckoutList; len(got) != 1 || got[0].ID != "7" {
		t.Fatalf("checkouts = %+v", got)
	}
}

func TestVehicleListRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	if res := f.store.VehicleList(context.Background(), "car", "parked", ""); res.Success {
		t.Fatal("unknown list kind accepted")
	}
	if res := f.store.VehicleList(context.Background(), "rocket", "all", ""); res.Success {
		t.Fatal("unknown vehicle type accepted")
	}
}

func TestCheckInNormalizesVehicle(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "s1", Role: "staff"}, []string{"home"})

	f.mux.HandleFunc("/api/checkin", func(w http.ResponseWriter, r *http.Request) {
		var body models.CheckInRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.VehicleNo != "KA01AB1234" || body.VehicleType != "car" {
			t.Errorf("body = %+v", body)
		}
		writeJSON(w, 201, map[string]any{"tokenId": "TK-1"})
	})

	token, res := f.store.CheckIn(context.Background(), models.CheckInRequest{
		Name:          "Ravi",
		VehicleNo:     " ka01ab1234 ",
		VehicleType:   "Car",
		PaymentMethod: "cash",
	})
	if !res.Success || token != "TK-1" {
		t.Fatalf("token %q res %+v", token, res)
	}

	if _, res := f.store.CheckIn(context.Background(), models.CheckInRequest{VehicleType: "car"}); res.Success {
		t.Fatal("missing vehicle number accepted")
	}
}

func TestCheckOutPreviewThenCommit(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "s1", Role: "staff"}, []string{"home"})

	f.mux.HandleFunc("/api/checkout", func(w http.ResponseWriter, r *http.Request) {
		var body models.CheckOutRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.TokenID != "TK-1" {
			t.Errorf("tokenId = %q", body.TokenID)
		}
		if body.PreviewOnly {
			writeJSON(w, 200, map[string]any{"data": map[string]any{
				"table": map[string]any{"perDayRate": "50", "extraDays": 2, "extraAmount": 100},
			}})
			return
		}
		writeJSON(w, 200, map[string]any{"receipt": map[string]any{"tokenId": "TK-1"}})
	})

	preview, res := f.store.CheckOut(context.Background(), "TK-1", true)
	if !res.Success || !preview.Data.NeedsExtraPayment() || preview.Receipt != nil {
		t.Fatalf("preview %+v res %+v", preview, res)
	}
	if preview.Data.Table.PerDayRate != 50 {
		t.Fatalf("perDayRate = %v", preview.Data.Table.PerDayRate)
	}

	done, res := f.store.CheckOut(context.Background(), "TK-1", false)
	if !res.Success || done.Data != nil || done.Receipt["tokenId"] != "TK-1" {
		t.Fatalf("receipt %+v res %+v", done, res)
	}

	if _, res := f.store.CheckOut(context.Background(), "  ", false); res.Success {
		t.Fatal("empty token accepted")
	}
}

func TestRevenueReportFillsSlot(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	f.mux.HandleFunc("/api/getRevenueReport", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("staffId") != "s1" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		writeJSON(w, 200, map[string]any{
			"vehicles":      []map[string]any{{"_id": "1"}, {"_id": "2"}},
			"revenue":       "340",
			"totalVehicles": 2,
		})
	})

	if res := f.store.FetchRevenueReport(context.Background(), "s1"); !res.Success {
		t.Fatalf("FetchRevenueReport: %s", res.Error)
	}
	st := f.store.Snapshot()
	if len(st.SelectedStaffRevenue) != 2 || st.TotalRevenue != 340 || st.TotalVehicles != 2 {
		t.Fatalf("revenue slot = %d %v %d", len(st.SelectedStaffRevenue), st.TotalRevenue, st.TotalVehicles)
	}
}

func TestStaffTodaySlots(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "s1", Role: "staff"}, []string{"home"})

	f.mux.HandleFunc("/api/today-checkins", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"vehicles": []map[string]any{{"_id": "1"}}})
	})
	f.mux.HandleFunc("/api/today-revenue", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"revenue": 120})
	})

	ctx := context.Background()
	if res := f.store.GetStaffTodayVehicles(ctx); !res.Success {
		t.Fatalf("GetStaffTodayVehicles: %s", res.Error)
	}
	if res := f.store.GetStaffTodayRevenue(ctx); !res.Success {
		t.Fatalf("GetStaffTodayRevenue: %s", res.Error)
	}

	st := f.store.Snapshot()
	if len(st.StaffTodayVehicles) != 1 || st.StaffTodayRevenue != 120 {
		t.Fatalf("today = %+v %v", st.StaffTodayVehicles, st.StaffTodayRevenue)
	}
}

func TestDeleteStaffRefetchesRoster(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)
	f.store.update(func(st *State) {
		st.Staffs = []models.Staff{{ID: "1"}, {ID: "2"}}
	})

	var deleted atomic.Bool
	f.mux.HandleFunc("/api/delete/2", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		deleted.Store(true)
		writeJSON(w, 200, map[string]any{"message": "deleted"})
	})
	f.mux.HandleFunc("/api/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"staffs": []map[string]any{{"_id": "1"}}})
	})

	if res := f.store.DeleteStaff(context.Background(), "2"); !res.Success {
		t.Fatalf("DeleteStaff: %s", res.Error)
	}
	if !deleted.Load() {
		t.Fatal("delete endpoint not called")
	}
	if got := f.store.Snapshot().Staffs; len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("roster = %+v", got)
	}
}
