package handlers

import (
	"encoding/json"
	"net/http"

	"parking-client/internal/api"
	"parking-client/internal/store"
	"parking-client/pkg/utils"
)

// writeResult answers with payload on success. Failures become
// {"success":false,"error":...}: 502 when the backend was unreachable or
// misbehaved, 400 for everything the user can fix.
func writeResult(w http.ResponseWriter, res store.Result, payload map[string]interface{}) {
	if !res.Success {
		utils.Error(w, failureStatus(res), res.Error)
		return
	}
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["success"] = true
	utils.JSON(w, http.StatusOK, payload)
}

func failureStatus(res store.Result) int {
	switch {
	case res.Error == api.MsgNetworkError, res.Error == api.MsgInvalidResponse:
		return http.StatusBadGateway
	case res.Status >= 500:
		return http.StatusBadGateway
	case res.Status == http.StatusUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// decode reads a JSON body into v, answering 400 itself on failure
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
