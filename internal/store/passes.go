package store

import (
	"context"
	"log"
	"strconv"
	"strings"
	"unicode"

	"parking-client/internal/api"
	"parking-client/internal/models"
)

// CreateMonthlyPass validates the form, normalizes it and creates the pass.
// The vehicle number is upper-cased with all whitespace removed, the vehicle
// type lower-cased and the payment mode defaults to cash.
func (s *Store) CreateMonthlyPass(ctx context.Context, form models.MonthlyPassForm) (models.MonthlyPassCreated, Result) {
	if form.Name == "" || form.VehicleNo == "" || form.Mobile == "" || form.VehicleType == "" ||
		form.Duration == "" || form.StartDate == "" || form.EndDate == "" || form.PaymentMethod == "" {
		return models.MonthlyPassCreated{}, api.Fail("All required fields must be provided")
	}
	duration, err := strconv.Atoi(strings.TrimSpace(form.Duration))
	if err != nil || duration <= 0 {
		return models.MonthlyPassCreated{}, api.Fail("Duration must be a positive number of months")
	}
	if _, _, res := s.session(ctx); !res.Success {
		return models.MonthlyPassCreated{}, res
	}

	paymentMode := strings.TrimSpace(form.PaymentMethod)
	if paymentMode == "" {
		paymentMode = "cash"
	}

	done := s.startLoading(GroupPasses)
	defer done()

	created, res := s.api.CreateMonthlyPass(ctx, models.CreateMonthlyPassRequest{
		Name:        form.Name,
		VehicleNo:   normalizeVehicleNo(form.VehicleNo),
		Mobile:      form.Mobile,
		VehicleType: strings.ToLower(form.VehicleType),
		StartDate:   form.StartDate,
		Duration:    duration,
		EndDate:     form.EndDate,
		Amount:      form.Amount,
		PaymentMode: paymentMode,
	})
	if !res.Success {
		return models.MonthlyPassCreated{}, res
	}
	return created, res
}

func normalizeVehicleNo(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, v)
}

// GetMonthlyPass fetches passes with status active or expired into the
// matching slot
func (s *Store) GetMonthlyPass(ctx context.Context, status string) ([]models.MonthlyPass, Result) {
	var slot Slot
	switch status {
	case models.PassActive:
		slot = SlotPassesActive
	case models.PassExpired:
		slot = SlotPassesExpired
	default:
		return nil, api.Fail("Status must be 'active' or 'expired'")
	}
	if _, _, res := s.session(ctx); !res.Success {
		return nil, res
	}

	done := s.startLoading(GroupPasses)
	defer done()

	seq := s.begin(slot)
	passes, res := s.api.MonthlyPasses(ctx, status)
	if !res.Success {
		return nil, res
	}
	s.apply(slot, seq, func(st *State) {
		if slot == SlotPassesActive {
			st.MonthlyPassActive = append([]models.MonthlyPass{}, passes...)
		} else {
			st.MonthlyPassExpired = append([]models.MonthlyPass{}, passes...)
		}
	})
	return passes, res
}

// ExtendMonthlyPass adds months to a pass and re-fetches the active list.
// The expired list is not refreshed. A failed re-fetch does not fail the
// extension, which the server has already committed.
func (s *Store) ExtendMonthlyPass(ctx context.Context, passID string, months int) Result {
	if passID == "" {
		return api.Fail("Pass ID is required")
	}
	if months <= 0 {
		return api.Fail("Months must be greater than zero")
	}
	if _, _, res := s.session(ctx); !res.Success {
		return res
	}

	done := s.startLoading(GroupPasses)
	res := s.api.ExtendPass(ctx, passID, months)
	done()
	if !res.Success {
		return res
	}

	if _, rres := s.GetMonthlyPass(ctx, models.PassActive); !rres.Success {
		log.Printf("[Store] Active pass refresh after extend failed: %s", rres.Error)
	}
	return res
}
