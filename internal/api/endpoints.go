package api

import (
	"context"
	"net/http"
	"net/url"

	"parking-client/internal/models"
)

func vehicleQuery(vehicle, staffID string) string {
	if vehicle == "" {
		vehicle = string(models.VehicleAll)
	}
	q := url.Values{}
	q.Set("vehicle", vehicle)
	if staffID != "" {
		q.Set("staffId", staffID)
	}
	return q.Encode()
}

// Register creates an admin account. It does not log in.
func (c *Client) Register(ctx context.Context, req models.SignupRequest) Result {
	return c.Do(ctx, http.MethodPost, "api/register", req, nil)
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, Result) {
	var out models.AuthResponse
	res := c.Do(ctx, http.MethodPost, "api/loginUser", req, &out)
	if res.Success && (out.Token == "" || out.User == nil) {
		return models.AuthResponse{}, Result{Error: MsgInvalidResponse, Status: res.Status}
	}
	return out, res
}

// GetPrices fetches the admin's price table. token may be empty to use the
// client's token source.
func (c *Client) GetPrices(ctx context.Context, adminID, token string) (models.PriceTable, Result) {
	var out models.PriceTable
	res := c.doWithToken(ctx, token, http.MethodGet, "api/getPrices/"+url.PathEscape(adminID), nil, &out)
	return out.Clone(), res
}

func (c *Client) UpdateDailyPrices(ctx context.Context, adminID string, prices models.PriceMap) (models.UpdatePricesResponse, Result) {
	var out models.UpdatePricesResponse
	res := c.Do(ctx, http.MethodPost, "api/updatePrice/daily",
		models.UpdateDailyPricesRequest{AdminID: adminID, DailyPrices: prices}, &out)
	return out, res
}

func (c *Client) UpdateMonthlyPrices(ctx context.Context, adminID string, prices models.PriceMap) (models.UpdatePricesResponse, Result) {
	var out models.UpdatePricesResponse
	res := c.Do(ctx, http.MethodPost, "api/updatePrice/monthly",
		models.UpdateMonthlyPricesRequest{AdminID: adminID, MonthlyPrices: prices}, &out)
	return out, res
}

// VehicleList fetches checkins, checkouts or all vehicles of one type,
// optionally scoped to a staff id
func (c *Client) VehicleList(ctx context.Context, kind, vehicle, staffID string) ([]models.Vehicle, Result) {
	var out models.VehicleListResponse
	res := c.Do(ctx, http.MethodGet, "api/"+kind+"?"+vehicleQuery(vehicle, staffID), nil, &out)
	return out.Items(), res
}

func (c *Client) Checkins(ctx context.Context, vehicle, staffID string) ([]models.Vehicle, Result) {
	return c.VehicleList(ctx, models.ListCheckins, vehicle, staffID)
}

func (c *Client) Checkouts(ctx context.Context, vehicle, staffID string) ([]models.Vehicle, Result) {
	return c.VehicleList(ctx, models.ListCheckouts, vehicle, staffID)
}

func (c *Client) CheckIn(ctx context.Context, req models.CheckInRequest) (models.CheckInResponse, Result) {
	var out models.CheckInResponse
	res := c.Do(ctx, http.MethodPost, "api/checkin", req, &out)
	return out, res
}

func (c *Client) CheckOut(ctx context.Context, req models.CheckOutRequest) (models.CheckOutResponse, Result) {
	var out models.CheckOutResponse
	res := c.Do(ctx, http.MethodPost, "api/checkout", req, &out)
	return out, res
}

// AllStaffs fetches the calling admin's roster
func (c *Client) AllStaffs(ctx context.Context) ([]models.Staff, Result) {
	var out models.StaffListResponse
	res := c.Do(ctx, http.MethodGet, "api/all", nil, &out)
	if out.Staffs == nil {
		out.Staffs = []models.Staff{}
	}
	return out.Staffs, res
}

func (c *Client) CreateStaff(ctx context.Context, adminID string, req models.CreateStaffRequest) (*models.Staff, Result) {
	var out models.StaffResponse
	res := c.Do(ctx, http.MethodPost, "api/create/"+url.PathEscape(adminID), req, &out)
	return out.Staff, res
}

func (c *Client) UpdateStaff(ctx context.Context, staffID string, req models.UpdateStaffRequest) (*models.Staff, Result) {
	var out models.StaffResponse
	res := c.Do(ctx, http.MethodPut, "api/update/"+url.PathEscape(staffID), req, &out)
	return out.Staff, res
}

func (c *Client) DeleteStaff(ctx context.Context, staffID string) Result {
	return c.Do(ctx, http.MethodDelete, "api/delete/"+url.PathEscape(staffID), nil, nil)
}

func (c *Client) TodayVehicles(ctx context.Context) (models.TodayVehiclesResponse, Result) {
	var out models.TodayVehiclesResponse
	res := c.Do(ctx, http.MethodGet, "api/getTodayVehicle", nil, &out)
	if out.FullData == nil {
		out.FullData = []models.Vehicle{}
	}
	return out, res
}

// DashboardData fetches the admin aggregates. token may be empty to use the
// client's token source.
func (c *Client) DashboardData(ctx context.Context, token string) (models.DashboardData, Result) {
	var out models.DashboardResponse
	res := c.doWithToken(ctx, token, http.MethodGet, "api/getDashboardData", nil, &out)
	if out.Data == nil {
		return models.DashboardData{}.WithDefaults(), res
	}
	return out.Data.WithDefaults(), res
}

func (c *Client) StaffTodayCheckins(ctx context.Context) ([]models.Vehicle, Result) {
	var out models.StaffTodayVehiclesResponse
	res := c.Do(ctx, http.MethodGet, "api/today-checkins", nil, &out)
	if out.Vehicles == nil {
		out.Vehicles = []models.Vehicle{}
	}
	return out.Vehicles, res
}

func (c *Client) StaffTodayRevenue(ctx context.Context) (models.Number, Result) {
	var out models.StaffTodayRevenueResponse
	res := c.Do(ctx, http.MethodGet, "api/today-revenue", nil, &out)
	return out.Revenue, res
}

func (c *Client) RevenueReport(ctx context.Context, staffID string) (models.RevenueReport, Result) {
	var out models.RevenueReport
	res := c.Do(ctx, http.MethodGet, "api/getRevenueReport?staffId="+url.QueryEscape(staffID), nil, &out)
	if out.Vehicles == nil {
		out.Vehicles = []models.Vehicle{}
	}
	return out, res
}

func (c *Client) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, Result) {
	var out models.UpdateProfileResponse
	res := c.Do(ctx, http.MethodPut, "api/updateAdmin/", req, &out)
	if res.Success && out.Admin == nil {
		return nil, Result{Error: MsgInvalidResponse, Status: res.Status}
	}
	return out.Admin, res
}

func (c *Client) CreateMonthlyPass(ctx context.Context, req models.CreateMonthlyPassRequest) (models.MonthlyPassCreated, Result) {
	var out models.MonthlyPassCreated
	res := c.Do(ctx, http.MethodPost, "api/createMonthlyPass", req, &out)
	return out, res
}

// MonthlyPasses lists passes with the given status (active or expired).
// The backend path keeps its historical spelling.
func (c *Client) MonthlyPasses(ctx context.Context, status string) ([]models.MonthlyPass, Result) {
	var out models.MonthlyPassList
	res := c.Do(ctx, http.MethodGet, "api/getMontlyPass/"+url.PathEscape(status), nil, &out)
	if out == nil {
		out = models.MonthlyPassList{}
	}
	return out, res
}

func (c *Client) ExtendPass(ctx context.Context, passID string, months int) Result {
	return c.Do(ctx, http.MethodPut, "api/extendPass/"+url.PathEscape(passID), models.ExtendPassRequest{Months: months}, nil)
}

func (c *Client) SetPermissions(ctx context.Context, staffID string, permissions []string) ([]string, Result) {
	var out models.SetPermissionsResponse
	res := c.Do(ctx, http.MethodPost, "api/setPermissions/"+url.PathEscape(staffID),
		models.SetPermissionsRequest{StaffID: staffID, Permissions: permissions}, &out)
	if out.Staff.Permissions == nil {
		out.Staff.Permissions = []string{}
	}
	return out.Staff.Permissions, res
}

// GetPermissions fetches a staff member's permission list. token may be empty
// to use the client's token source.
func (c *Client) GetPermissions(ctx context.Context, staffID, token string) ([]string, Result) {
	var out models.GetPermissionsResponse
	res := c.doWithToken(ctx, token, http.MethodPost, "api/staff/getPermissions",
		models.GetPermissionsRequest{StaffID: staffID}, &out)
	if out.Permissions == nil {
		out.Permissions = []string{}
	}
	return out.Permissions, res
}
