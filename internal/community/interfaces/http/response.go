package http

import (
	"encoding/json"
	"net/http"

	"energy-community/internal/community/application"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func statusCode(status application.Status) int {
	switch status {
	case application.StatusOK:
		return http.StatusOK
	case application.StatusCreated:
		return http.StatusCreated
	case application.StatusNotFound:
		return http.StatusNotFound
	case application.StatusBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeResult[T any](w http.ResponseWriter, res application.Result[T]) {
	body := envelope{Success: res.Success(), Message: res.Message}
	if res.Success() {
		body.Data = res.Data
	}
	writeJSON(w, statusCode(res.Status), body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, envelope{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
