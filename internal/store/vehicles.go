package store

import (
	"context"
	"strings"
	"time"

	"parking-client/internal/api"
	"parking-client/internal/models"
	"parking-client/internal/timeutil"
)

// VehicleList fetches one list kind (checkins, checkouts or all) for a
// vehicle type, optionally scoped to a staff id, into the vehicle list slot.
// There is no pagination; filtering happens over the cached list.
func (s *Store) VehicleList(ctx context.Context, vehicle, kind, staffID string) Result {
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}
	if !models.ValidListKind(kind) {
		return api.Fail("List type must be 'checkins', 'checkouts' or 'all'")
	}
	vt, ok := models.ParseVehicleType(vehicle, true)
	if !ok {
		return api.Fail("Unknown vehicle type: " + vehicle)
	}

	done := s.startLoading(GroupVehicles)
	defer done()

	seq := s.begin(SlotVehicleList)
	list, res := s.api.VehicleList(ctx, kind, string(vt), staffID)
	if !res.Success {
		return res
	}
	s.apply(SlotVehicleList, seq, func(st *State) { st.VehicleList = list })
	return res
}

// FetchCheckins loads the check-in list. A failed fetch empties the slot.
func (s *Store) FetchCheckins(ctx context.Context, vehicle, staffID string) Result {
	return s.fetchEvents(ctx, SlotCheckins, models.ListCheckins, vehicle, staffID)
}

// FetchCheckouts loads the checkout list. A failed fetch empties the slot.
func (s *Store) FetchCheckouts(ctx context.Context, vehicle, staffID string) Result {
	return s.fetchEvents(ctx, SlotCheckouts, models.ListCheckouts, vehicle, staffID)
}

func (s *Store) fetchEvents(ctx context.Context, slot Slot, kind, vehicle, staffID string) Result {
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}
	vt, ok := models.ParseVehicleType(vehicle, true)
	if !ok {
		return api.Fail("Unknown vehicle type: " + vehicle)
	}

	done := s.startLoading(GroupVehicles)
	defer done()

	seq := s.begin(slot)
	list, res := s.api.VehicleList(ctx, kind, string(vt), staffID)
	if !res.Success {
		list = []models.Vehicle{}
	}
	s.apply(slot, seq, func(st *State) {
		if slot == SlotCheckins {
			st.CheckinList = list
		} else {
			st.CheckoutList = list
		}
	})
	return res
}

// CheckIn registers a vehicle and returns the issued token id
func (s *Store) CheckIn(ctx context.Context, req models.CheckInRequest) (string, Result) {
	if _, _, res := s.session(ctx); !res.Success {
		return "", res
	}
	req.VehicleNo = strings.ToUpper(strings.TrimSpace(req.VehicleNo))
	if req.VehicleNo == "" {
		return "", api.Fail("Vehicle number is required")
	}
	vt, ok := models.ParseVehicleType(req.VehicleType, false)
	if !ok {
		return "", api.Fail("Unknown vehicle type: " + req.VehicleType)
	}
	req.VehicleType = string(vt)

	done := s.startLoading(GroupVehicles)
	defer done()

	out, res := s.api.CheckIn(ctx, req)
	if !res.Success {
		return "", res
	}
	return out.TokenID, res
}

// CheckOut closes a parking session. With preview set nothing is committed
// and the server's settlement table is returned; otherwise the receipt is.
func (s *Store) CheckOut(ctx context.Context, tokenID string, preview bool) (models.CheckOutResponse, Result) {
	if _, _, res := s.session(ctx); !res.Success {
		return models.CheckOutResponse{}, res
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return models.CheckOutResponse{}, api.Fail("Token ID is required")
	}

	done := s.startLoading(GroupVehicles)
	defer done()

	out, res := s.api.CheckOut(ctx, models.CheckOutRequest{TokenID: tokenID, PreviewOnly: preview})
	if !res.Success {
		return models.CheckOutResponse{}, res
	}
	if preview {
		out.Receipt = nil
		if out.Data == nil {
			out.Data = &models.CheckoutPreview{}
		}
	} else {
		out.Data = nil
		if out.Receipt == nil {
			out.Receipt = map[string]any{}
		}
	}
	return out, res
}

// FilterVehicles narrows a cached list by a case-insensitive search over
// name, vehicle number, token id and mobile, and optionally by the IST
// calendar day of entry. The input is not modified.
func FilterVehicles(list []models.Vehicle, search string, day *time.Time) []models.Vehicle {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Vehicle, 0, len(list))
	for _, v := range list {
		if search != "" && !matchesSearch(v, search) {
			continue
		}
		if day != nil {
			entry, err := timeutil.ParseTimestamp(v.EntryDateTime)
			if err != nil || !timeutil.SameDay(entry, *day) {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}

func matchesSearch(v models.Vehicle, search string) bool {
	for _, field := range []string{v.Name, v.VehicleNo, v.TokenID, v.Mobile} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
