package models

// Staff is a staff account created by an admin.
// Password is plaintext and visible to the admin who owns the account.
type Staff struct {
	ID          string    `json:"_id"`
	Username    string    `json:"username"`
	Password    string    `json:"password,omitempty"`
	Building    *Building `json:"building,omitempty"`
	BuildingID  *Building `json:"buildingId,omitempty"` // populated building reference on list responses
	Permissions []string  `json:"permissions,omitempty"`
}

// BuildingName returns the building name from whichever field the backend populated
func (s Staff) BuildingName() string {
	if s.Building != nil && s.Building.Name != "" {
		return s.Building.Name
	}
	if s.BuildingID != nil {
		return s.BuildingID.Name
	}
	return ""
}

// Merge overlays the non-empty fields of update onto s and returns the result
func (s Staff) Merge(update Staff) Staff {
	if update.Username != "" {
		s.Username = update.Username
	}
	if update.Password != "" {
		s.Password = update.Password
	}
	if update.Building != nil {
		s.Building = update.Building
	}
	if update.BuildingID != nil {
		s.BuildingID = update.BuildingID
	}
	if update.Permissions != nil {
		s.Permissions = update.Permissions
	}
	return s
}

// CreateStaffRequest represents the request body for creating a staff account
type CreateStaffRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Building Building `json:"building"`
}

// UpdateStaffRequest is a partial update: username and building are always
// sent, password only when a new one was entered.
type UpdateStaffRequest struct {
	Username string   `json:"username"`
	Building Building `json:"building"`
	Password string   `json:"password,omitempty"`
}

// StaffResponse wraps a single staff record
type StaffResponse struct {
	Staff *Staff `json:"staff"`
}

// StaffListResponse wraps the admin's roster
type StaffListResponse struct {
	Staffs []Staff `json:"staffs"`
}

// StaffPerformance is one row of the dashboard's per-staff table
type StaffPerformance struct {
	Username  string `json:"username"`
	CheckIns  int    `json:"checkIns"`
	CheckOuts int    `json:"checkOuts"`
	Revenue   Number `json:"revenue"`
}
