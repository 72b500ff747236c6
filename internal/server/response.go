package server

import (
	"encoding/json"
	"net/http"
)

// response is the envelope every JSON endpoint writes.
type response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorInfo `json:"error,omitempty"`
}

type errorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, response{Success: false, Error: &errorInfo{Message: message, Code: code}})
}
