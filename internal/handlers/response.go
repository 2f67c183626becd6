package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-portal/internal/middleware"
	"github.com/ukydev/car-rental-portal/internal/rental"
)

const maxBodyBytes = 1 << 20

// envelope is the JSON shape of every API response.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Rule    string      `json:"rule,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func respond(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: status < http.StatusBadRequest, Message: message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, rental.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, rental.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rental.ErrInvalidTransition), errors.Is(err, rental.ErrConflictingBooking):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status of its kind. Rule errors expose
// their message and rule; anything else is logged and reported as fallback.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	body := envelope{Success: false, Message: fallback}
	if re, ok := rental.AsRuleError(err); ok && status != http.StatusInternalServerError {
		body.Message = re.Message
		body.Rule = re.Rule
	}

	entry := log.WithError(err).WithFields(log.Fields{
		"requestId": middleware.RequestID(r.Context()),
		"path":      r.URL.Path,
		"status":    status,
	})
	if status == http.StatusInternalServerError {
		entry.Error(fallback)
	} else {
		entry.Debug("Request rejected")
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return rental.Validation("body", "failed to read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return rental.Validation("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}
