package store

import (
	"parking-client/internal/models"
)

// Phase is the session lifecycle state
type Phase string

const (
	PhaseUninitialized   Phase = "uninitialized"
	PhaseRestoring       Phase = "restoring"
	PhaseAuthenticated   Phase = "authenticated"
	PhaseUnauthenticated Phase = "unauthenticated"
)

// Loading groups. One flag per logical group of calls.
const (
	GroupAuth        = "auth"
	GroupStaff       = "staff"
	GroupVehicles    = "vehicles"
	GroupPrices      = "prices"
	GroupDashboard   = "dashboard"
	GroupPasses      = "passes"
	GroupPermissions = "permissions"
	GroupReports     = "reports"
)

// Slot names a cache field that is fetched and overwritten independently
type Slot string

const (
	SlotStaffs            Slot = "staffs"
	SlotVehicleList       Slot = "vehicleList"
	SlotCheckins          Slot = "checkins"
	SlotCheckouts         Slot = "checkouts"
	SlotPrices            Slot = "prices"
	SlotDashboard         Slot = "dashboard"
	SlotRevenue           Slot = "revenue"
	SlotStaffToday        Slot = "staffToday"
	SlotStaffTodayRevenue Slot = "staffTodayRevenue"
	SlotPassesActive      Slot = "monthlyPassActive"
	SlotPassesExpired     Slot = "monthlyPassExpired"
	SlotPermissions       Slot = "permissions"
	SlotSession           Slot = "session"
)

var allSlots = []Slot{
	SlotStaffs, SlotVehicleList, SlotCheckins, SlotCheckouts, SlotPrices,
	SlotDashboard, SlotRevenue, SlotStaffToday, SlotStaffTodayRevenue,
	SlotPassesActive, SlotPassesExpired, SlotPermissions, SlotSession,
}

// State is the whole application state. Readers only ever see copies.
type State struct {
	Phase          Phase        `json:"phase"`
	Hydrated       bool         `json:"hydrated"`
	SessionExpired bool         `json:"sessionExpired"`
	Token          string       `json:"-"`
	User           *models.User `json:"user"`
	Role           string       `json:"role"`

	// StaffPermission is the effective set enforced for a staff session.
	// Permissions is the list last fetched for any staff id (the permission
	// editor reads it).
	StaffPermission []string `json:"staffPermission"`
	Permissions     []string `json:"permissions"`

	Loading map[string]bool `json:"loading"`

	Staffs       []models.Staff    `json:"staffs"`
	VehicleList  []models.Vehicle  `json:"vehicleListData"`
	CheckinList  []models.Vehicle  `json:"checkinList"`
	CheckoutList []models.Vehicle  `json:"checkoutList"`
	Prices       models.PriceTable `json:"priceData"`

	Dashboard models.DashboardData `json:"dashboard"`
	FullData  []models.Vehicle     `json:"fullData"`

	SelectedStaffRevenue []models.Vehicle `json:"selectedStaffRevenue"`
	TotalRevenue         models.Number    `json:"totalRevenue"`
	TotalVehicles        int              `json:"totalVehicles"`

	StaffTodayVehicles []models.Vehicle `json:"staffTodayVehicles"`
	StaffTodayRevenue  models.Number    `json:"staffTodayRevenue"`

	// nil until the list for that status has been fetched
	MonthlyPassActive  []models.MonthlyPass `json:"monthlyPassActive"`
	MonthlyPassExpired []models.MonthlyPass `json:"monthlyPassExpired"`
}

// IsAuthenticated reports whether a session is active
func (s State) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated && s.Token != ""
}

// IsLoading reports whether any call in group is in flight
func (s State) IsLoading(group string) bool {
	return s.Loading[group]
}

// emptyState is every field at its documented empty default
func emptyState() State {
	return State{
		Phase:           PhaseUninitialized,
		StaffPermission: []string{},
		Permissions:     []string{},
		Loading:         map[string]bool{},
		Staffs:          []models.Staff{},
		VehicleList:     []models.Vehicle{},
		CheckinList:     []models.Vehicle{},
		CheckoutList:    []models.Vehicle{},
		Prices:          models.PriceTable{}.Clone(),
		Dashboard:       models.DashboardData{}.WithDefaults(),
		FullData:        []models.Vehicle{},

		SelectedStaffRevenue: []models.Vehicle{},
		StaffTodayVehicles:   []models.Vehicle{},
	}
}

// clone deep-copies every slice and map so the copy shares nothing with s
func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		if s.User.Building != nil {
			b := *s.User.Building
			u.Building = &b
		}
		out.User = &u
	}
	out.StaffPermission = append([]string{}, s.StaffPermission...)
	out.Permissions = append([]string{}, s.Permissions...)

	out.Loading = make(map[string]bool, len(s.Loading))
	for k, v := range s.Loading {
		out.Loading[k] = v
	}

	out.Staffs = make([]models.Staff, len(s.Staffs))
	for i, st := range s.Staffs {
		if st.Permissions != nil {
			st.Permissions = append([]string{}, st.Permissions...)
		}
		out.Staffs[i] = st
	}

	out.VehicleList = append([]models.Vehicle{}, s.VehicleList...)
	out.CheckinList = append([]models.Vehicle{}, s.CheckinList...)
	out.CheckoutList = append([]models.Vehicle{}, s.CheckoutList...)
	out.Prices = s.Prices.Clone()

	d := s.Dashboard
	d.Checkins = d.Checkins.Clone()
	d.Checkouts = d.Checkouts.Clone()
	d.AllData = d.AllData.Clone()
	d.VehicleTotalMoney = d.VehicleTotalMoney.Clone()
	d.PaymentMethod = d.PaymentMethod.Clone()
	d.StaffData = append([]models.StaffPerformance{}, d.StaffData...)
	d.TransactionLogs = append([]models.TransactionLog{}, d.TransactionLogs...)
	out.Dashboard = d

	out.FullData = append([]models.Vehicle{}, s.FullData...)
	out.SelectedStaffRevenue = append([]models.Vehicle{}, s.SelectedStaffRevenue...)
	out.StaffTodayVehicles = append([]models.Vehicle{}, s.StaffTodayVehicles...)

	if s.MonthlyPassActive != nil {
		out.MonthlyPassActive = append([]models.MonthlyPass{}, s.MonthlyPassActive...)
	}
	if s.MonthlyPassExpired != nil {
		out.MonthlyPassExpired = append([]models.MonthlyPass{}, s.MonthlyPassExpired...)
	}
	return out
}
