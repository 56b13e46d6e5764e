package handlers

import (
	"errors"
	"log"
	"net/http"

	"parking-client/internal/report"
	"parking-client/internal/store"
	"parking-client/internal/timeutil"
	"parking-client/pkg/utils"
)

type DashboardHandler struct {
	Store    *store.Store
	Archiver *report.Archiver
}

// NewDashboardHandler creates the handler. archiver may be nil when no
// bucket is configured.
func NewDashboardHandler(s *store.Store, archiver *report.Archiver) *DashboardHandler {
	return &DashboardHandler{Store: s, Archiver: archiver}
}

// Dashboard is the admin aggregate screen
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	res := h.Store.GetDashboardData(r.Context())
	writeResult(w, res, map[string]interface{}{"dashboard": h.Store.Snapshot().Dashboard})
}

// Today is the today report screen: per vehicle type and per payment rows
func (h *DashboardHandler) Today(w http.ResponseWriter, r *http.Request) {
	t, res := h.today(r)
	writeResult(w, res, map[string]interface{}{
		"vehicles": t.Rows,
		"payments": t.Payments,
		"fullData": h.Store.Snapshot().FullData,
	})
}

func (h *DashboardHandler) TodayPDF(w http.ResponseWriter, r *http.Request) {
	t, res := h.today(r)
	if !res.Success {
		writeResult(w, res, nil)
		return
	}

	data, err := t.PDF()
	if err != nil {
		log.Printf("[Report] %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+t.FileName("pdf"))
	w.Write(data)
}

func (h *DashboardHandler) TodayCSV(w http.ResponseWriter, r *http.Request) {
	t, res := h.today(r)
	if !res.Success {
		writeResult(w, res, nil)
		return
	}

	data, err := t.CSV()
	if err != nil {
		log.Printf("[Report] %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+t.FileName("csv"))
	w.Write(data)
}

// Archive uploads the today report to the configured bucket
func (h *DashboardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if h.Archiver == nil {
		utils.Error(w, http.StatusServiceUnavailable, report.ErrArchiveDisabled.Error())
		return
	}

	t, res := h.today(r)
	if !res.Success {
		writeResult(w, res, nil)
		return
	}

	keys, err := h.Archiver.Upload(r.Context(), t)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, report.ErrArchiveDisabled) {
			status = http.StatusServiceUnavailable
		}
		utils.Error(w, status, err.Error())
		return
	}
	writeResult(w, res, map[string]interface{}{"keys": keys})
}

func (h *DashboardHandler) today(r *http.Request) (report.Today, store.Result) {
	res := h.Store.GetTodayVehicles(r.Context())
	rows, payments := store.TodayReport(h.Store.Snapshot())
	return report.Today{Date: timeutil.Now(), Rows: rows, Payments: payments}, res
}
