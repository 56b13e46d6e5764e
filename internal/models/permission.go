package models

// Capabilities a staff member can be granted. The list is closed and checked
// by exact match.
const (
	PermHome                = "home"
	PermVehicles            = "vehicles"
	PermTodayReport         = "todayReport"
	PermMonthlyPass         = "monthlyPass"
	PermAccountSettings     = "accountSettings"
	PermDashboard           = "dashboard"
	PermAccount             = "account"
	PermPriceDetails        = "priceDetails"
	PermStaffSettings       = "staffSettings"
	PermEditDeleteStaff     = "edit/DeleteStaff"
	PermCreateStaff         = "createStaff"
	PermViewStaff           = "ViewStaff"
	PermInStaff             = "InStaff"
	PermStaffDetails        = "staffDetails"
	PermStaffVehicles       = "staffVehicles"
	PermStaffRevenue        = "staffRevenue"
	PermStaffPermissionPage = "staffPermissionPage"
	PermAdminUpdate         = "adminUpdate"
	PermPrinterSettings     = "printerSettings"
)

// Permissions is the full capability vocabulary in the order the permission
// editor shows it
var Permissions = []string{
	PermHome,
	PermVehicles,
	PermTodayReport,
	PermMonthlyPass,
	PermAccountSettings,
	PermDashboard,
	PermAccount,
	PermPriceDetails,
	PermStaffSettings,
	PermEditDeleteStaff,
	PermCreateStaff,
	PermViewStaff,
	PermInStaff,
	PermStaffDetails,
	PermStaffVehicles,
	PermStaffRevenue,
	PermStaffPermissionPage,
	PermAdminUpdate,
	PermPrinterSettings,
}

// IsKnownPermission reports whether p belongs to the vocabulary
func IsKnownPermission(p string) bool {
	for _, known := range Permissions {
		if known == p {
			return true
		}
	}
	return false
}

// SetPermissionsRequest overwrites the server-side list for a staff id
type SetPermissionsRequest struct {
	StaffID     string   `json:"staffId"`
	Permissions []string `json:"permissions"`
}

// SetPermissionsResponse echoes the stored list
type SetPermissionsResponse struct {
	Staff struct {
		Permissions []string `json:"permissions"`
	} `json:"staff"`
}

// GetPermissionsRequest asks for a staff id's permission list
type GetPermissionsRequest struct {
	StaffID string `json:"staffId"`
}

// GetPermissionsResponse carries the permission list
type GetPermissionsResponse struct {
	Permissions []string `json:"permissions"`
}
