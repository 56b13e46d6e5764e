package store

import (
	"context"
	"log"
	"sort"

	"parking-client/internal/models"
)

// GetDashboardData loads the admin aggregates. Each aggregate defaults to
// empty on its own; a failed fetch resets all of them.
func (s *Store) GetDashboardData(ctx context.Context) Result {
	token, _, res := s.session(ctx)
	if !res.Success {
		s.applyLatest(SlotDashboard, resetDashboard)
		return res
	}
	return s.getDashboardData(ctx, token)
}

func (s *Store) getDashboardData(ctx context.Context, token string) Result {
	done := s.startLoading(GroupDashboard)
	defer done()

	seq := s.begin(SlotDashboard)
	data, res := s.api.DashboardData(ctx, token)
	if !res.Success {
		log.Printf("[Store] Dashboard data error: %s", res.Error)
		s.apply(SlotDashboard, seq, resetDashboard)
		return res
	}
	s.apply(SlotDashboard, seq, func(st *State) {
		st.Dashboard = data.WithDefaults()
	})
	return res
}

func resetDashboard(st *State) {
	st.Dashboard = models.DashboardData{}.WithDefaults()
}

// GetTodayVehicles loads today's counts, revenue and full vehicle list into
// the same aggregates the dashboard uses. Staff data and the transaction log
// are left as they are.
func (s *Store) GetTodayVehicles(ctx context.Context) Result {
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}

	done := s.startLoading(GroupDashboard)
	defer done()

	seq := s.begin(SlotDashboard)
	today, res := s.api.TodayVehicles(ctx)
	if !res.Success {
		log.Printf("[Store] Today vehicle error: %s", res.Error)
		return res
	}
	s.apply(SlotDashboard, seq, func(st *State) {
		st.Dashboard.Checkins = today.CheckinsCount.Clone()
		st.Dashboard.Checkouts = today.CheckoutsCount.Clone()
		st.Dashboard.AllData = today.AllDataCount.Clone()
		st.Dashboard.VehicleTotalMoney = today.Money.Clone()
		st.Dashboard.PaymentMethod = today.PaymentMethod.Clone()
		st.FullData = today.FullData
	})
	return res
}

// FetchRevenueReport loads one staff member's vehicles and revenue
func (s *Store) FetchRevenueReport(ctx context.Context, staffID string) Result {
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}

	done := s.startLoading(GroupReports)
	defer done()

	seq := s.begin(SlotRevenue)
	report, res := s.api.RevenueReport(ctx, staffID)
	if !res.Success {
		log.Printf("[Store] Error fetching revenue: %s", res.Error)
		return res
	}
	s.apply(SlotRevenue, seq, func(st *State) {
		st.SelectedStaffRevenue = report.Vehicles
		st.TotalRevenue = report.Revenue
		st.TotalVehicles = report.TotalVehicles
	})
	return res
}

// GetStaffTodayVehicles loads the calling staff member's vehicles for today
func (s *Store) GetStaffTodayVehicles(ctx context.Context) Result {
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}

	done := s.startLoading(GroupReports)
	defer done()

	seq := s.begin(SlotStaffToday)
	list, res := s.api.StaffTodayCheckins(ctx)
	if !res.Success {
		return res
	}
	s.apply(SlotStaffToday, seq, func(st *State) { st.StaffTodayVehicles = list })
	return res
}

// GetStaffTodayRevenue loads the calling staff member's revenue for today
func (s *Store) GetStaffTodayRevenue(ctx context.Context) Result {
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}

	done := s.startLoading(GroupReports)
	defer done()

	seq := s.begin(SlotStaffTodayRevenue)
	revenue, res := s.api.StaffTodayRevenue(ctx)
	if !res.Success {
		return res
	}
	s.apply(SlotStaffTodayRevenue, seq, func(st *State) { st.StaffTodayRevenue = revenue })
	return res
}

// TodayReport turns the cached aggregates into per vehicle type rows (every
// priced type, in display order) and per payment method rows
func TodayReport(st State) ([]models.TodayReportRow, []models.PaymentRow) {
	rows := make([]models.TodayReportRow, 0, len(models.VehicleTypes))
	for _, vt := range models.VehicleTypes {
		key := string(vt)
		rows = append(rows, models.TodayReportRow{
			Vehicle:  key,
			Checkin:  st.Dashboard.Checkins[key].Float64(),
			Checkout: st.Dashboard.Checkouts[key].Float64(),
			Total:    st.Dashboard.AllData[key].Float64(),
			Money:    st.Dashboard.VehicleTotalMoney[key].Float64(),
		})
	}

	payments := make([]models.PaymentRow, 0, len(st.Dashboard.PaymentMethod))
	for _, method := range sortedKeys(st.Dashboard.PaymentMethod) {
		payments = append(payments, models.PaymentRow{
			Method: method,
			Amount: st.Dashboard.PaymentMethod[method].Float64(),
		})
	}
	return rows, payments
}

func sortedKeys(c models.Counts) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
