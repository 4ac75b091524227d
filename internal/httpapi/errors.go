package httpapi

import (
	"encoding/json"
	"net/http"

	"resourced/pkg/types"
)

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeAdmissionDenied is the 503 variant carrying the refusal reason, so
// callers can tell "wait for memory" apart from "resource is broken".
func writeAdmissionDenied(w http.ResponseWriter, msg, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{
		Error:  msg,
		Code:   http.StatusServiceUnavailable,
		Reason: reason,
	})
}
