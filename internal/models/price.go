package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PriceMap maps a vehicle type to its price as a numeric string.
// Numbers sent by the backend are accepted and stored in string form.
type PriceMap map[VehicleType]string

func (m *PriceMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PriceMap, len(raw))
	for k, v := range raw {
		key := VehicleType(strings.ToLower(k))
		if string(bytes.TrimSpace(v)) == "null" {
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil {
			out[key] = strings.TrimSpace(s)
			continue
		}
		var n Number
		if n.UnmarshalJSON(v) == nil {
			out[key] = n.String()
		}
	}
	*m = out
	return nil
}

// Clone returns an independent copy
func (m PriceMap) Clone() PriceMap {
	if m == nil {
		return PriceMap{}
	}
	out := make(PriceMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PriceTable holds the daily and monthly rate tables for one admin
type PriceTable struct {
	DailyPrices   PriceMap `json:"dailyPrices"`
	MonthlyPrices PriceMap `json:"monthlyPrices"`
}

// Clone returns a deep copy with both maps non-nil
func (t PriceTable) Clone() PriceTable {
	return PriceTable{
		DailyPrices:   t.DailyPrices.Clone(),
		MonthlyPrices: t.MonthlyPrices.Clone(),
	}
}

// IsEmpty reports whether neither table has any entry
func (t PriceTable) IsEmpty() bool {
	return len(t.DailyPrices) == 0 && len(t.MonthlyPrices) == 0
}

// UpdateDailyPricesRequest replaces the admin's daily table
type UpdateDailyPricesRequest struct {
	AdminID     string   `json:"adminId"`
	DailyPrices PriceMap `json:"dailyPrices"`
}

// UpdateMonthlyPricesRequest replaces the admin's monthly table
type UpdateMonthlyPricesRequest struct {
	AdminID       string   `json:"adminId"`
	MonthlyPrices PriceMap `json:"monthlyPrices"`
}

// UpdatePricesResponse echoes the stored table and a confirmation message
type UpdatePricesResponse struct {
	Message string     `json:"message"`
	Data    PriceTable `json:"data"`
}
