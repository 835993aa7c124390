package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pbaille/localconnect/internal/domain"
	"github.com/pbaille/localconnect/internal/events"
	"github.com/pbaille/localconnect/internal/pass"
	"github.com/pbaille/localconnect/internal/view"
)

// Response is the JSON envelope of every endpoint
type Response struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	resp.Timestamp = time.Now().UTC()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Status: "error", Message: message})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSortKey),
		errors.Is(err, domain.ErrInvalidViewMode),
		errors.Is(err, pass.ErrIncompletePass),
		errors.Is(err, events.ErrInvalidEvent):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, events.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, view.ErrUnavailable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
