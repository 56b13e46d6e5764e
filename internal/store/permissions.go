package store

import (
	"context"
	"log"

	"parking-client/internal/api"
	"parking-client/internal/models"
	"parking-client/internal/storage"
)

// SetStaffPermission overwrites the server-side permission list for staffID
// and returns the stored list
func (s *Store) SetStaffPermission(ctx context.Context, staffID string, permissions []string) ([]string, Result) {
	if staffID == "" {
		return nil, api.Fail("Staff ID is required")
	}
	for _, p := range permissions {
		if !models.IsKnownPermission(p) {
			return nil, api.Fail("Unknown permission: " + p)
		}
	}
	if permissions == nil {
		permissions = []string{}
	}
	if _, _, res := s.session(ctx); !res.Success {
		return nil, res
	}

	done := s.startLoading(GroupPermissions)
	defer done()

	stored, res := s.api.SetPermissions(ctx, staffID, permissions)
	if !res.Success {
		return nil, res
	}

	s.applyLatest(SlotPermissions, func(st *State) {
		st.Permissions = append([]string{}, stored...)
		for i := range st.Staffs {
			if st.Staffs[i].ID == staffID {
				st.Staffs[i].Permissions = append([]string{}, stored...)
			}
		}
	})
	return stored, res
}

// GetStaffPermission fetches the permission list for staffID into the cache.
// When staffID is the logged-in staff member the effective set is replaced
// and persisted too.
func (s *Store) GetStaffPermission(ctx context.Context, staffID string) Result {
	if staffID == "" {
		return api.Fail("Staff ID is required")
	}
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}

	done := s.startLoading(GroupPermissions)
	defer done()

	seq := s.begin(SlotPermissions)
	perms, res := s.api.GetPermissions(ctx, staffID, "")
	if !res.Success {
		log.Printf("[Store] Permission fetch for %s failed: %s", staffID, res.Error)
		return res
	}

	self := false
	s.apply(SlotPermissions, seq, func(st *State) {
		st.Permissions = append([]string{}, perms...)
		if st.User.IsStaff() && st.User.ID == staffID {
			st.StaffPermission = append([]string{}, perms...)
			self = true
		}
	})
	if self {
		s.persistJSON(ctx, storage.KeyStaffPermission, perms)
	}
	return res
}
