package handlers

import (
	"errors"
	"net/http"

	"parking-client/internal/printer"
	"parking-client/pkg/utils"
)

type PrinterHandler struct {
	Printers *printer.Registry
}

func NewPrinterHandler(reg *printer.Registry) *PrinterHandler {
	return &PrinterHandler{Printers: reg}
}

// PrintRequest carries ready-made printer bytes (base64 in JSON)
type PrintRequest struct {
	Data []byte `json:"data"`
}

func (h *PrinterHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.Printers.Status())
}

func (h *PrinterHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var p printer.Peripheral
	if !decode(w, r, &p) {
		return
	}
	if err := h.Printers.Connect(p); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Connected to " + p.PeripheralID,
	})
}

func (h *PrinterHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.Printers.Disconnect()
	utils.JSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *PrinterHandler) Print(w http.ResponseWriter, r *http.Request) {
	var req PrintRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Data) == 0 {
		utils.Error(w, http.StatusBadRequest, "Nothing to print")
		return
	}

	err := h.Printers.Print(r.Context(), req.Data)
	if errors.Is(err, printer.ErrNotConnected) {
		utils.Error(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "Could not send data to printer.")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Receipt sent to printer.",
	})
}
