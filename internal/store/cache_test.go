package store

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parking-client/internal/models"
)

func TestUpdateDailyPricesLeavesMonthlyUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	monthly := models.PriceMap{"car": "1500", "bike": "600"}
	f.store.update(func(st *State) {
		st.Prices = models.PriceTable{DailyPrices: models.PriceMap{"car": "50"}, MonthlyPrices: monthly.Clone()}
	})

	f.mux.HandleFunc("/api/updatePrice/daily", func(w http.ResponseWriter, r *http.Request) {
		var body models.UpdateDailyPricesRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.AdminID != "a1" {
			t.Errorf("adminId = %q", body.AdminID)
		}
		// the echo includes a different monthly table, which must be ignored
		writeJSON(w, 200, map[string]any{
			"message": "Daily prices updated",
			"data": map[string]any{
				"dailyPrices":   body.DailyPrices,
				"monthlyPrices": map[string]any{"car": "1"},
			},
		})
	})

	msg, res := f.store.UpdateDailyPrices(ctx, models.PriceMap{"car": "60", "bus": "200"})
	if !res.Success || msg != "Daily prices updated" {
		t.Fatalf("msg %q res %+v", msg, res)
	}

	st := f.store.Snapshot()
	if !reflect.DeepEqual(st.Prices.MonthlyPrices, monthly) {
		t.Fatalf("monthly changed: %v", st.Prices.MonthlyPrices)
	}
	if st.Prices.DailyPrices["car"] != "60" || st.Prices.DailyPrices["bus"] != "200" {
		t.Fatalf("daily = %v", st.Prices.DailyPrices)
	}
}

func TestUpdateMonthlyPricesLeavesDailyUntouched(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	daily := models.PriceMap{"cycle": "5"}
	f.store.update(func(st *State) { st.Prices.DailyPrices = daily.Clone() })

	f.mux.HandleFunc("/api/updatePrice/monthly", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"message": "ok"})
	})

	if _, res := f.store.UpdateMonthlyPrices(context.Background(), models.PriceMap{"van": "3000"}); !res.Success {
		t.Fatalf("UpdateMonthlyPrices: %s", res.Error)
	}
	st := f.store.Snapshot()
	if !reflect.DeepEqual(st.Prices.DailyPrices, daily) {
		t.Fatalf("daily changed: %v", st.Prices.DailyPrices)
	}
	if st.Prices.MonthlyPrices["van"] != "3000" {
		t.Fatalf("monthly = %v", st.Prices.MonthlyPrices)
	}
}

func TestUpdateStaffPatchesInPlace(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)
	f.store.update(func(st *State) {
		st.Staffs = []models.Staff{{ID: "1", Username: "a"}, {ID: "2", Username: "b"}}
	})

	f.mux.HandleFunc("/api/update/2", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if _, sent := body["password"]; sent {
			t.Error("empty password should not be sent")
		}
		writeJSON(w, 200, map[string]any{"staff": map[string]any{"_id": "2", "username": "c"}})
	})

	if _, res := f.store.UpdateStaff(context.Background(), "2", models.UpdateStaffRequest{Username: "c"}); !res.Success {
		t.Fatalf("UpdateStaff: %s", res.Error)
	}

	got := f.store.Snapshot().Staffs
	want := []models.Staff{{ID: "1", Username: "a"}, {ID: "2", Username: "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("staffs = %+v, want %+v", got, want)
	}
}

func TestCreateStaffRefetchesRoster(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	f.mux.HandleFunc("/api/create/a1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 201, map[string]any{"staff": map[string]any{"_id": "9", "username": "new"}})
	})
	f.mux.HandleFunc("/api/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{"staffs": []map[string]any{{"_id": "9", "username": "new"}}})
	})

	staff, res := f.store.CreateStaff(context.Background(), "new", "pw", models.Building{Name: "B1"})
	if !res.Success || staff == nil || staff.ID != "9" {
		t.Fatalf("staff %+v res %+v", staff, res)
	}
	if got := f.store.Snapshot().Staffs; len(got) != 1 || got[0].ID != "9" {
		t.Fatalf("roster = %+v", got)
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	arrived := make(chan struct{})
	release := make(chan struct{})
	f.mux.HandleFunc("/api/all", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vehicle") == "car" {
			close(arrived)
			<-release
			writeJSON(w, 200, map[string]any{"vehicles": []map[string]any{{"_id": "old"}}})
			return
		}
		writeJSON(w, 200, map[string]any{"vehicles": []map[string]any{{"_id": "new"}}})
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.store.VehicleList(context.Background(), "car", models.ListAll, "")
	}()

	<-arrived
	if res := f.store.VehicleList(context.Background(), "bike", models.ListAll, ""); !res.Success {
		t.Fatalf("VehicleList: %s", res.Error)
	}
	close(release)
	wg.Wait()

	list := f.store.Snapshot().VehicleList
	if len(list) != 1 || list[0].ID != "new" {
		t.Fatalf("vehicle list = %+v, want the later request's data", list)
	}
	if f.store.Snapshot().IsLoading(GroupVehicles) {
		t.Fatal("loading flag left set")
	}
}

func TestResponseAfterLogoutIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	arrived := make(chan struct{})
	release := make(chan struct{})
	f.mux.HandleFunc("/api/all", func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		writeJSON(w, 200, map[string]any{"staffs": []map[string]any{{"_id": "1"}}})
	})

	done := make(chan struct{})
	go func() {
		f.store.GetAllStaffs(context.Background())
		close(done)
	}()

	<-arrived
	f.store.LogOut(context.Background())
	close(release)
	<-done

	if got := f.store.Snapshot().Staffs; len(got) != 0 {
		t.Fatalf("roster repopulated after logout: %+v", got)
	}
}

func TestDashboardFailureResetsAggregates(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)
	f.store.update(func(st *State) {
		st.Dashboard.Checkins = models.Counts{"car": 2}
		st.Dashboard.TransactionLogs = []models.TransactionLog{{ID: "t"}}
	})

	f.mux.HandleFunc("/api/getDashboardData", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]any{"message": "db down"})
	})

	res := f.store.GetDashboardData(context.Background())
	if res.Success || res.Error != "db down" {
		t.Fatalf("res = %+v", res)
	}
	d := f.store.Snapshot().Dashboard
	if len(d.Checkins) != 0 || len(d.TransactionLogs) != 0 || d.PaymentMethod == nil {
		t.Fatalf("dashboard not reset: %+v", d)
	}
}

func TestTodayVehiclesMapsFields(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	f.mux.HandleFunc("/api/getTodayVehicle", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]any{
			"checkinsCount":  map[string]any{"car": 3},
			"checkoutsCount": map[string]any{"car": 1},
			"allDataCount":   map[string]any{"car": 4},
			"money":          map[string]any{"car": "120"},
			"PaymentMethod":  map[string]any{"upi": 80, "cash": 40},
			"fullData":       []map[string]any{{"_id": "v1"}},
		})
	})

	if res := f.store.GetTodayVehicles(context.Background()); !res.Success {
		t.Fatalf("GetTodayVehicles: %s", res.Error)
	}
	st := f.store.Snapshot()
	rows, payments := TodayReport(st)
	if rows[2].Vehicle != "car" || rows[2].Checkin != 3 || rows[2].Total != 4 || rows[2].Money != 120 {
		t.Fatalf("car row = %+v", rows[2])
	}
	if len(payments) != 2 || payments[0].Method != "cash" || payments[1].Amount != 80 {
		t.Fatalf("payments = %+v", payments)
	}
	if len(st.FullData) != 1 {
		t.Fatalf("fullData = %+v", st.FullData)
	}
}

func TestCreateMonthlyPassNormalizes(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	var got models.CreateMonthlyPassRequest
	f.mux.HandleFunc("/api/createMonthlyPass", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, 201, map[string]any{"pass": map[string]any{"_id": "p1"}, "qrCode": "data:image/png;base64,xx"})
	})

	form := models.MonthlyPassForm{
		Name: "Ravi", VehicleNo: "ka 01 ab\t1234", Mobile: "999", VehicleType: "Car",
		Duration: "3", StartDate: "2025-06-01", EndDate: "2025-09-01", PaymentMethod: "upi",
	}
	created, res := f.store.CreateMonthlyPass(context.Background(), form)
	if !res.Success || created.Pass == nil || created.QRCode == "" {
		t.Fatalf("created %+v res %+v", created, res)
	}
	if got.VehicleNo != "KA01AB1234" || got.VehicleType != "car" || got.Duration != 3 || got.PaymentMode != "upi" {
		t.Fatalf("request = %+v", got)
	}
}

func TestCreateMonthlyPassRequiresFields(t *testing.T) {
	f := newFixture(t)
	_, res := f.store.CreateMonthlyPass(context.Background(), models.MonthlyPassForm{Name: "x"})
	if res.Success || res.Error != "All required fields must be provided" {
		t.Fatalf("res = %+v", res)
	}
}

func TestMonthlyPassSlotsAndExtend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	if _, res := f.store.GetMonthlyPass(ctx, "pending"); res.Success || res.Error != "Status must be 'active' or 'expired'" {
		t.Fatalf("invalid status res = %+v", res)
	}

	var activeCalls, expiredCalls atomic.Int32
	f.mux.HandleFunc("/api/getMontlyPass/active", func(w http.ResponseWriter, r *http.Request) {
		activeCalls.Add(1)
		writeJSON(w, 200, []map[string]any{{"_id": "a"}})
	})
	f.mux.HandleFunc("/api/getMontlyPass/expired", func(w http.ResponseWriter, r *http.Request) {
		expiredCalls.Add(1)
		writeJSON(w, 200, map[string]any{"passes": []map[string]any{{"_id": "e", "isExpired": true}}})
	})
	f.mux.HandleFunc("/api/extendPass/a", func(w http.ResponseWriter, r *http.Request) {
		var body models.ExtendPassRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Months != 2 {
			t.Errorf("months = %d", body.Months)
		}
		writeJSON(w, 200, map[string]any{"message": "extended"})
	})

	f.store.GetMonthlyPass(ctx, models.PassExpired)
	if res := f.store.ExtendMonthlyPass(ctx, "a", 2); !res.Success {
		t.Fatalf("ExtendMonthlyPass: %s", res.Error)
	}

	st := f.store.Snapshot()
	if len(st.MonthlyPassActive) != 1 || len(st.MonthlyPassExpired) != 1 || !st.MonthlyPassExpired[0].IsExpired {
		t.Fatalf("active %+v expired %+v", st.MonthlyPassActive, st.MonthlyPassExpired)
	}
	if activeCalls.Load() != 1 || expiredCalls.Load() != 1 {
		t.Fatalf("active fetched %d times, expired %d times", activeCalls.Load(), expiredCalls.Load())
	}
}

func TestExtendSucceedsWhenRefreshFails(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	var extends atomic.Int32
	f.mux.HandleFunc("/api/extendPass/p1", func(w http.ResponseWriter, r *http.Request) {
		extends.Add(1)
		writeJSON(w, 200, map[string]any{"message": "extended"})
	})
	f.mux.HandleFunc("/api/getMontlyPass/active", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]any{"message": "list temporarily unavailable"})
	})

	res := f.store.ExtendMonthlyPass(context.Background(), "p1", 1)
	if !res.Success {
		t.Fatalf("extension committed but reported %+v", res)
	}
	if extends.Load() != 1 {
		t.Fatalf("extend calls = %d", extends.Load())
	}
}

func TestGetMonthlyPassReturnsCopy(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	f.mux.HandleFunc("/api/getMontlyPass/active", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, []map[string]any{{"_id": "a", "vehicleNo": "KA01"}})
	})

	passes, res := f.store.GetMonthlyPass(context.Background(), models.PassActive)
	if !res.Success || len(passes) != 1 {
		t.Fatalf("passes %+v res %+v", passes, res)
	}
	passes[0].VehicleNo = "changed"

	if got := f.store.Snapshot().MonthlyPassActive[0].VehicleNo; got != "KA01" {
		t.Fatalf("cached vehicle number = %q", got)
	}
}

func TestSetStaffPermissionRejectsUnknown(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)

	if _, res := f.store.SetStaffPermission(context.Background(), "s1", []string{"home", "everything"}); res.Success {
		t.Fatal("unknown permission accepted")
	}
}

func TestSetStaffPermissionUpdatesRoster(t *testing.T) {
	f := newFixture(t)
	f.loginAs(t, models.User{ID: "a1", Role: "admin"}, nil)
	f.store.update(func(st *State) { st.Staffs = []models.Staff{{ID: "s1"}} })

	f.mux.HandleFunc("/api/setPermissions/s1", func(w http.ResponseWriter, r *http.Request) {
		var body models.SetPermissionsRequest
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]any{"staff": map[string]any{"permissions": body.Permissions}})
	})

	stored, res := f.store.SetStaffPermission(context.Background(), "s1", []string{"home", "dashboard"})
	if !res.Success || len(stored) != 2 {
		t.Fatalf("stored %v res %+v", stored, res)
	}
	st := f.store.Snapshot()
	if !reflect.DeepEqual(st.Staffs[0].Permissions, []string{"home", "dashboard"}) {
		t.Fatalf("roster permissions = %v", st.Staffs[0].Permissions)
	}
	if len(st.StaffPermission) != 0 {
		t.Fatal("admin's own effective set should not change")
	}
}

func TestOperationsRequireSession(t *testing.T) {
	f := newFixture(t)
	if _, res := f.store.GetAllStaffs(context.Background()); res.Success || res.Error != "No token found" {
		t.Fatalf("res = %+v", res)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	f := newFixture(t)
	f.store.update(func(st *State) {
		st.Staffs = []models.Staff{{ID: "1", Username: "a"}}
		st.Prices.DailyPrices = models.PriceMap{"car": "10"}
	})

	snap := f.store.Snapshot()
	snap.Staffs[0].Username = "mutated"
	snap.Prices.DailyPrices["car"] = "0"

	again := f.store.Snapshot()
	if again.Staffs[0].Username != "a" || again.Prices.DailyPrices["car"] != "10" {
		t.Fatal("snapshot shares memory with the store")
	}
}

func TestSubscribeNotifies(t *testing.T) {
	f := newFixture(t)
	var mu sync.Mutex
	var seen []Phase
	cancel := f.store.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, st.Phase)
		mu.Unlock()
	})

	f.store.RestoreSession(context.Background())
	cancel()
	f.store.LogOut(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(seen) == 0 || seen[len(seen)-1] != PhaseUnauthenticated {
		t.Fatalf("notifications = %v", seen)
	}
}

func TestFilterVehicles(t *testing.T) {
	list := []models.Vehicle{
		{ID: "1", Name: "Ravi", VehicleNo: "KA01AB1234", EntryDateTime: "2025-06-01T04:00:00.000Z"},
		{ID: "2", Name: "Meena", VehicleNo: "TN09ZZ0001", TokenID: "TK-77", EntryDateTime: "2025-05-31T20:00:00.000Z"},
		{ID: "3", Name: "Arun", Mobile: "98450", EntryDateTime: "bad"},
	}

	if got := FilterVehicles(list, "ab12", nil); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("vehicle number search = %+v", got)
	}
	if got := FilterVehicles(list, "tk-77", nil); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("token search = %+v", got)
	}
	if got := FilterVehicles(list, "", nil); len(got) != 3 {
		t.Errorf("empty search = %d items", len(got))
	}

	// 2025-05-31T20:00Z is 01:30 on June 1 in IST
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := FilterVehicles(list, "", &day)
	if len(got) != 2 {
		t.Errorf("day filter = %+v", got)
	}
}
