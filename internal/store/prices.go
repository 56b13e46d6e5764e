package store

import (
	"context"
	"log"

	"parking-client/internal/api"
	"parking-client/internal/models"
	"parking-client/internal/storage"
)

// FetchPrices loads the daily and monthly tables for adminID. For a staff
// session the backend resolves the owning admin from the id it is given.
func (s *Store) FetchPrices(ctx context.Context, adminID string) Result {
	token, userID, res := s.session(ctx)
	if !res.Success {
		return res
	}
	if adminID == "" {
		adminID = userID
	}
	return s.fetchPrices(ctx, adminID, token)
}

func (s *Store) fetchPrices(ctx context.Context, adminID, token string) Result {
	done := s.startLoading(GroupPrices)
	defer done()

	seq := s.begin(SlotPrices)
	table, res := s.api.GetPrices(ctx, adminID, token)
	if !res.Success {
		log.Printf("[Store] Price fetch failed: %s", res.Error)
		return res
	}

	if s.apply(SlotPrices, seq, func(st *State) { st.Prices = table.Clone() }) {
		s.persistJSON(ctx, storage.KeyPrices, table)
	}
	return res
}

// UpdateDailyPrices replaces the daily table. The monthly table in the cache
// is left untouched. The returned string is the server's confirmation.
func (s *Store) UpdateDailyPrices(ctx context.Context, prices models.PriceMap) (string, Result) {
	return s.updatePrices(ctx, prices, false)
}

// UpdateMonthlyPrices replaces the monthly table, leaving the daily table as is
func (s *Store) UpdateMonthlyPrices(ctx context.Context, prices models.PriceMap) (string, Result) {
	return s.updatePrices(ctx, prices, true)
}

func (s *Store) updatePrices(ctx context.Context, prices models.PriceMap, monthly bool) (string, Result) {
	_, adminID, res := s.session(ctx)
	if !res.Success {
		return "", res
	}
	for vt := range prices {
		if _, ok := models.ParseVehicleType(string(vt), false); !ok {
			return "", api.Fail("Unknown vehicle type: " + string(vt))
		}
	}

	done := s.startLoading(GroupPrices)
	defer done()

	var resp models.UpdatePricesResponse
	if monthly {
		resp, res = s.api.UpdateMonthlyPrices(ctx, adminID, prices)
	} else {
		resp, res = s.api.UpdateDailyPrices(ctx, adminID, prices)
	}
	if !res.Success {
		return "", res
	}

	// fall back to what was sent when the echo omits the table
	replaced := prices.Clone()
	if monthly && len(resp.Data.MonthlyPrices) > 0 {
		replaced = resp.Data.MonthlyPrices.Clone()
	}
	if !monthly && len(resp.Data.DailyPrices) > 0 {
		replaced = resp.Data.DailyPrices.Clone()
	}

	// a fetch issued before this write may carry the old table
	var table models.PriceTable
	s.applyLatest(SlotPrices, func(st *State) {
		if monthly {
			st.Prices.MonthlyPrices = replaced
		} else {
			st.Prices.DailyPrices = replaced
		}
		table = st.Prices.Clone()
	})
	s.persistJSON(ctx, storage.KeyPrices, table)
	return resp.Message, res
}
