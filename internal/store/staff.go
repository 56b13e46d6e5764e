package store

import (
	"context"
	"log"
	"strings"

	"parking-client/internal/api"
	"parking-client/internal/models"
)

// GetAllStaffs refreshes the admin's roster
func (s *Store) GetAllStaffs(ctx context.Context) ([]models.Staff, Result) {
	if _, _, res := s.session(ctx); !res.Success {
		return nil, res
	}

	done := s.startLoading(GroupStaff)
	defer done()

	seq := s.begin(SlotStaffs)
	staffs, res := s.api.AllStaffs(ctx)
	if !res.Success {
		return nil, res
	}
	s.apply(SlotStaffs, seq, func(st *State) {
		st.Staffs = append([]models.Staff{}, staffs...)
	})
	return staffs, res
}

// CreateStaff creates a staff account owned by the current admin and
// re-fetches the roster
func (s *Store) CreateStaff(ctx context.Context, username, password string, building models.Building) (*models.Staff, Result) {
	_, adminID, res := s.session(ctx)
	if !res.Success {
		return nil, res
	}
	if adminID == "" {
		return nil, api.Fail("Admin ID not found")
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, api.Fail("Username and password are required")
	}

	staff, res := s.api.CreateStaff(ctx, adminID, models.CreateStaffRequest{
		Username: username,
		Password: password,
		Building: building,
	})
	if !res.Success {
		return nil, res
	}
	log.Printf("[Store] Created staff %s", username)

	if _, rres := s.GetAllStaffs(ctx); !rres.Success {
		log.Printf("[Store] Roster refresh after create failed: %s", rres.Error)
	}
	return staff, res
}

// UpdateStaff sends a partial update and patches the matching roster entry
// in place. Username and building are always sent; the password only when
// a new one was entered.
func (s *Store) UpdateStaff(ctx context.Context, staffID string, req models.UpdateStaffRequest) (*models.Staff, Result) {
	if _, _, res := s.session(ctx); !res.Success {
		return nil, res
	}
	if staffID == "" {
		return nil, api.Fail("Staff ID is required")
	}
	req.Username = strings.TrimSpace(req.Username)

	updated, res := s.api.UpdateStaff(ctx, staffID, req)
	if !res.Success {
		return nil, res
	}

	patch := models.Staff{Username: req.Username, Password: req.Password, Building: &req.Building}
	if updated != nil {
		patch = *updated
	}
	patch.ID = ""

	var merged *models.Staff
	s.applyLatest(SlotStaffs, func(st *State) {
		staffs := make([]models.Staff, len(st.Staffs))
		for i, existing := range st.Staffs {
			if existing.ID == staffID {
				existing = existing.Merge(patch)
				m := existing
				merged = &m
			}
			staffs[i] = existing
		}
		st.Staffs = staffs
	})
	if merged == nil {
		merged = updated
	}
	return merged, res
}

// DeleteStaff removes a staff account and re-fetches the roster
func (s *Store) DeleteStaff(ctx context.Context, staffID string) Result {
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}
	if staffID == "" {
		return api.Fail("Staff ID is required")
	}

	res := s.api.DeleteStaff(ctx, staffID)
	if !res.Success {
		return res
	}
	log.Printf("[Store] Deleted staff %s", staffID)

	if _, rres := s.GetAllStaffs(ctx); !rres.Success {
		log.Printf("[Store] Roster refresh after delete failed: %s", rres.Error)
	}
	return res
}
