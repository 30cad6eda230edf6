package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSONResponse is the standard JSON response envelope. Successful responses
// carry Message and Data; error responses carry Error only.
type JSONResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, JSONResponse{
		Message: message,
		Data:    data,
	})
}

// JSONError writes an error envelope derived from err.
//
// HTTPError values map to their status code and message; anything else is
// reported as a generic 500 so internal details never reach the client.
func JSONError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := http.StatusText(http.StatusInternalServerError)

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		message = httpErr.Message
		if message == "" {
			message = http.StatusText(httpErr.Code)
		}
	}

	writeJSON(w, status, JSONResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
