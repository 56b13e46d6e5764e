package models

import "strings"

// VehicleType is one of the fixed vehicle classes priced by the lot
type VehicleType string

const (
	VehicleCycle VehicleType = "cycle"
	VehicleBike  VehicleType = "bike"
	VehicleCar   VehicleType = "car"
	VehicleVan   VehicleType = "van"
	VehicleLorry VehicleType = "lorry"
	VehicleBus   VehicleType = "bus"

	// VehicleAll is only valid as a list filter
	VehicleAll VehicleType = "all"
)

// VehicleTypes lists every priced vehicle type in display order
var VehicleTypes = []VehicleType{VehicleCycle, VehicleBike, VehicleCar, VehicleVan, VehicleLorry, VehicleBus}

// ParseVehicleType normalizes s and reports whether it is a known type.
// "all" is accepted only when allowAll is set.
func ParseVehicleType(s string, allowAll bool) (VehicleType, bool) {
	v := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	if v == VehicleAll {
		return v, allowAll
	}
	for _, t := range VehicleTypes {
		if t == v {
			return v, true
		}
	}
	return v, false
}

// Vehicle list kinds accepted by the list endpoints
const (
	ListCheckins  = "checkins"
	ListCheckouts = "checkouts"
	ListAll       = "all"
)

// ValidListKind reports whether kind names a vehicle list endpoint
func ValidListKind(kind string) bool {
	switch kind {
	case ListCheckins, ListCheckouts, ListAll:
		return true
	}
	return false
}

// Vehicle is one parking session: created by check-in, closed by check-out
type Vehicle struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	VehicleNo     string `json:"vehicleNo"`
	VehicleType   string `json:"vehicleType"`
	Mobile        string `json:"mobile"`
	TokenID       string `json:"tokenId"`
	EntryDateTime string `json:"entryDateTime"`
	ExitDateTime  string `json:"exitDateTime,omitempty"`
	IsCheckedOut  bool   `json:"isCheckedOut"`
	PaidDays      Number `json:"paidDays"`
	PerDayRate    Number `json:"perDayRate"`
	Amount        Number `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	CreatedBy     string `json:"createdBy,omitempty"`
}

// VehicleListResponse covers both spellings the list endpoints use
type VehicleListResponse struct {
	Vehicle  []Vehicle `json:"vehicle"`
	Vehicles []Vehicle `json:"vehicles"`
}

// Items returns whichever list the backend populated, never nil
func (r VehicleListResponse) Items() []Vehicle {
	if r.Vehicle != nil {
		return r.Vehicle
	}
	if r.Vehicles != nil {
		return r.Vehicles
	}
	return []Vehicle{}
}

// CheckInRequest represents the request body for a check-in
type CheckInRequest struct {
	Name          string `json:"name"`
	VehicleNo     string `json:"vehicleNo"`
	VehicleType   string `json:"vehicleType"`
	Mobile        string `json:"mobile"`
	PaymentMethod string `json:"paymentMethod"`
	Days          string `json:"days"`
	Amount        Number `json:"amount"`
}

// CheckInResponse carries the parking token printed on the ticket
type CheckInResponse struct {
	TokenID string `json:"tokenId"`
}

// CheckOutRequest closes a parking session. With PreviewOnly set the server
// only computes the extra-days table.
type CheckOutRequest struct {
	TokenID     string `json:"tokenId"`
	PreviewOnly bool   `json:"previewOnly,omitempty"`
}

// CheckoutTable is the server-computed settlement for a checkout
type CheckoutTable struct {
	PerDayRate  Number `json:"perDayRate"`
	PaidDays    Number `json:"paidDays"`
	PaidAmount  Number `json:"paidAmount"`
	ExtraDays   Number `json:"extraDays"`
	ExtraAmount Number `json:"extraAmount"`
	TotalAmount Number `json:"totalAmount"`
}

// CheckoutPreview is returned for previewOnly checkouts
type CheckoutPreview struct {
	Name        string        `json:"name,omitempty"`
	VehicleNo   string        `json:"vehicleNo,omitempty"`
	VehicleType string        `json:"vehicleType,omitempty"`
	Table       CheckoutTable `json:"table"`
}

// NeedsExtraPayment reports whether the vehicle overstayed its paid days
func (p *CheckoutPreview) NeedsExtraPayment() bool {
	return p != nil && p.Table.ExtraDays > 0
}

// CheckOutResponse covers both checkout variants
type CheckOutResponse struct {
	Data    *CheckoutPreview `json:"data,omitempty"`
	Receipt map[string]any   `json:"receipt,omitempty"`
}

// RevenueReport is the per-staff revenue screen payload
type RevenueReport struct {
	Vehicles      []Vehicle `json:"vehicles"`
	Revenue       Number    `json:"revenue"`
	TotalVehicles int       `json:"totalVehicles"`
}

// StaffTodayVehiclesResponse lists the calling staff member's vehicles for today
type StaffTodayVehiclesResponse struct {
	Vehicles []Vehicle `json:"vehicles"`
}

// StaffTodayRevenueResponse is the calling staff member's revenue for today
type StaffTodayRevenueResponse struct {
	Revenue Number `json:"revenue"`
}
