package kit

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-2xx reply. Detail is a plain message
// for domain errors and a list of ValidationIssue for rejected input.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

type ValidationIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteDetail(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, ErrorResponse{Detail: detail})
}

func WriteValidation(w http.ResponseWriter, issues []ValidationIssue) {
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: issues})
}
