package v1

import (
	"encoding/json"
	"net/http"

	"github.com/RogerDodger/gp-kitchen/internal/utils"
)

// errorResponse is the uniform error body for the v1 API.
type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// writeJSON encodes payload with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		utils.Error("failed to encode response", "error", err.Error())
	}
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: status})
}
