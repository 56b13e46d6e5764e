// Package report renders the today report for download and archiving.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"parking-client/internal/models"
	"parking-client/internal/timeutil"
)

// Today holds one day's per vehicle type and per payment method totals
type Today struct {
	Date     time.Time
	Rows     []models.TodayReportRow
	Payments []models.PaymentRow
}

// Totals sums every row
func (t Today) Totals() (checkin, checkout, total, money, payments float64) {
	for _, r := range t.Rows {
		checkin += r.Checkin
		checkout += r.Checkout
		total += r.Total
		money += r.Money
	}
	for _, p := range t.Payments {
		payments += p.Amount
	}
	return
}

// PDF renders the report as an A4 document
func (t Today) PDF() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Parking - Today's Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Date: %s", timeutil.FormatIST(t.Date, "02-Jan-2006 (Monday)")), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Vehicles table
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Vehicles", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(50, 7, "Vehicle", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "In", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Out", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "All", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Money", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(t.Rows) == 0 {
		pdf.CellFormat(190, 6, "No vehicle data available", "1", 1, "C", false, 0, "")
	}
	for _, r := range t.Rows {
		pdf.CellFormat(50, 6, r.Vehicle, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, formatCount(r.Checkin), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, formatCount(r.Checkout), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, formatCount(r.Total), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, formatMoney(r.Money), "1", 1, "R", false, 0, "")
	}

	checkin, checkout, total, money, paid := t.Totals()
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(50, 7, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, formatCount(checkin), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, formatCount(checkout), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, formatCount(total), "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 7, formatMoney(money), "1", 1, "R", false, 0, "")
	pdf.Ln(5)

	// Payment methods
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Payment Methods", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, "Payment", "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, "Money", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if len(t.Payments) == 0 {
		pdf.CellFormat(190, 6, "No payment data", "1", 1, "C", false, 0, "")
	}
	for _, p := range t.Payments {
		pdf.CellFormat(95, 6, p.Method, "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, formatMoney(p.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(200, 255, 200)
	pdf.CellFormat(190, 10, fmt.Sprintf("Collected: %s", formatMoney(paid)), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render today report: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV renders the vehicle rows followed by the payment rows
func (t Today) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Vehicle", "In", "Out", "All", "Money"})
	for _, r := range t.Rows {
		w.Write([]string{r.Vehicle, formatCount(r.Checkin), formatCount(r.Checkout), formatCount(r.Total), fmt.Sprintf("%.2f", r.Money)})
	}
	w.Write(nil)
	w.Write([]string{"Payment", "Money"})
	for _, p := range t.Payments {
		w.Write([]string{p.Method, fmt.Sprintf("%.2f", p.Amount)})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName is the download/archive name for the given extension
func (t Today) FileName(ext string) string {
	return fmt.Sprintf("today_report_%s.%s", timeutil.FormatIST(t.Date, "20060102"), ext)
}

func formatCount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// Core PDF fonts have no rupee glyph
func formatMoney(v float64) string {
	return fmt.Sprintf("Rs. %.2f", v)
}
