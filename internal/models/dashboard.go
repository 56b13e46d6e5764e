package models

import (
	"bytes"
	"encoding/json"
)

// Counts maps a vehicle type (or payment method) to a count or amount.
// The backend sometimes sends a flat list of records instead of a map; those
// are aggregated by vehicleType.
type Counts map[string]Number

func (c *Counts) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	out := Counts{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = out
		return nil
	}

	if data[0] == '[' {
		var items []struct {
			VehicleType string  `json:"vehicleType"`
			Method      string  `json:"method"`
			Amount      *Number `json:"amount"`
		}
		if err := json.Unmarshal(data, &items); err != nil {
			*c = out
			return nil
		}
		for _, it := range items {
			switch {
			case it.Method != "":
				if it.Amount != nil {
					out[it.Method] += *it.Amount
				}
			case it.VehicleType != "":
				out[it.VehicleType]++
			default:
				out["Unknown"]++
			}
		}
		*c = out
		return nil
	}

	var raw map[string]Number
	if err := json.Unmarshal(data, &raw); err != nil {
		*c = out
		return nil
	}
	for k, v := range raw {
		out[k] = v
	}
	*c = out
	return nil
}

// Clone returns an independent copy, never nil
func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Transaction types in the dashboard log
const (
	TransactionCheckin  = "checkin"
	TransactionCheckout = "checkout"
)

// TransactionLog is one entry of the dashboard's flat activity log
type TransactionLog struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	VehicleType   string  `json:"vehicleType"`
	Timestamp     string  `json:"timestamp"`
	Staff         string  `json:"staff"`
	Amount        Number  `json:"amount"`
	PaymentMethod *string `json:"paymentMethod"`
}

// DashboardData is the admin dashboard aggregate. Each field is independent
// and decodes to an empty value when absent.
type DashboardData struct {
	Checkins          Counts             `json:"checkins"`
	Checkouts         Counts             `json:"checkouts"`
	AllData           Counts             `json:"allData"`
	VehicleTotalMoney Counts             `json:"VehicleTotalMoney"`
	PaymentMethod     Counts             `json:"PaymentMethod"`
	StaffData         []StaffPerformance `json:"staffData"`
	TransactionLogs   []TransactionLog   `json:"transactionLogs"`
}

// WithDefaults fills every nil field with its empty value
func (d DashboardData) WithDefaults() DashboardData {
	if d.Checkins == nil {
		d.Checkins = Counts{}
	}
	if d.Checkouts == nil {
		d.Checkouts = Counts{}
	}
	if d.AllData == nil {
		d.AllData = Counts{}
	}
	if d.VehicleTotalMoney == nil {
		d.VehicleTotalMoney = Counts{}
	}
	if d.PaymentMethod == nil {
		d.PaymentMethod = Counts{}
	}
	if d.StaffData == nil {
		d.StaffData = []StaffPerformance{}
	}
	if d.TransactionLogs == nil {
		d.TransactionLogs = []TransactionLog{}
	}
	return d
}

// DashboardResponse wraps the dashboard aggregate
type DashboardResponse struct {
	Data *DashboardData `json:"data"`
}

// TodayVehiclesResponse is the today report payload; its field names differ
// from the dashboard's.
type TodayVehiclesResponse struct {
	CheckinsCount  Counts    `json:"checkinsCount"`
	CheckoutsCount Counts    `json:"checkoutsCount"`
	AllDataCount   Counts    `json:"allDataCount"`
	Money          Counts    `json:"money"`
	PaymentMethod  Counts    `json:"PaymentMethod"`
	FullData       []Vehicle `json:"fullData"`
}

// TodayReportRow is one vehicle type line of the today report
type TodayReportRow struct {
	Vehicle  string  `json:"vehicle"`
	Checkin  float64 `json:"checkin"`
	Checkout float64 `json:"checkout"`
	Total    float64 `json:"total"`
	Money    float64 `json:"money"`
}

// PaymentRow is one payment method line of the today report
type PaymentRow struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}
