package models

import (
	"bytes"
	"encoding/json"
)

// Monthly pass statuses accepted by the list endpoint
const (
	PassActive  = "active"
	PassExpired = "expired"
)

// MonthlyPass is a prepaid multi-month parking pass
type MonthlyPass struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	VehicleNo   string `json:"vehicleNo"`
	Mobile      string `json:"mobile"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Duration    Number `json:"duration"` // months
	Amount      Number `json:"amount"`
	PaymentMode string `json:"paymentMode"`
	VehicleType string `json:"vehicleType"`
	IsExpired   bool   `json:"isExpired"`
}

// MonthlyPassForm is what the pass creation screen collects
type MonthlyPassForm struct {
	Name          string  `json:"name"`
	VehicleNo     string  `json:"vehicleNo"`
	Mobile        string  `json:"mobile"`
	VehicleType   string  `json:"vehicleType"`
	Duration      string  `json:"duration"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        *Number `json:"amount,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
}

// CreateMonthlyPassRequest is the normalized body sent to the backend
type CreateMonthlyPassRequest struct {
	Name        string  `json:"name"`
	VehicleNo   string  `json:"vehicleNo"`
	Mobile      string  `json:"mobile"`
	VehicleType string  `json:"vehicleType"`
	StartDate   string  `json:"startDate"`
	Duration    int     `json:"duration"`
	EndDate     string  `json:"endDate"`
	Amount      *Number `json:"amount,omitempty"`
	PaymentMode string  `json:"paymentMode"`
}

// MonthlyPassCreated carries the stored pass and its QR code payload
type MonthlyPassCreated struct {
	Pass   *MonthlyPass `json:"pass"`
	QRCode string       `json:"qrCode"`
}

// ExtendPassRequest adds months to a pass
type ExtendPassRequest struct {
	Months int `json:"months"`
}

// MonthlyPassList decodes either a bare array or an object wrapping the
// array under "passes" or "data".
type MonthlyPassList []MonthlyPass

func (l *MonthlyPassList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = MonthlyPassList{}
		return nil
	}
	if data[0] == '[' {
		var items []MonthlyPass
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var wrapped struct {
		Passes []MonthlyPass `json:"passes"`
		Data   []MonthlyPass `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	switch {
	case wrapped.Passes != nil:
		*l = wrapped.Passes
	case wrapped.Data != nil:
		*l = wrapped.Data
	default:
		*l = MonthlyPassList{}
	}
	return nil
}
