package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/planner/backend/internal/domain"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes what went wrong.
type ErrorDetail struct {
	Code             string              `json:"code"`
	Message          string              `json:"message"`
	Fields           map[string][]string `json:"fields,omitempty"`
	FailedRecipients []FailedRecipient   `json:"failed_recipients,omitempty"`
}

// FailedRecipient is a participant whose invitation could not be delivered.
type FailedRecipient struct {
	ParticipantID string `json:"participant_id"`
	Email         string `json:"email"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// writeError translates err into a status code and error envelope.
// resource names what was being looked up (e.g. "trip") for 404 messages.
// Unexpected errors are logged and reported as a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var (
		reqErr   *requestError
		maxErr   *http.MaxBytesError
		delivery *domain.DeliveryError
	)
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: reqErr.message,
			Fields:  reqErr.fields,
		}})
	case errors.As(err, &maxErr):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload_too_large", "request body too large"))
	case errors.Is(err, domain.ErrInvalidDates):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_dates", plainMessage(err, domain.ErrInvalidDates)))
	case errors.Is(err, domain.ErrInvalidActivityDate):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_activity_date", plainMessage(err, domain.ErrInvalidActivityDate)))
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		writeJSON(w, http.StatusBadRequest, errorBody("already_confirmed", plainMessage(err, domain.ErrAlreadyConfirmed)))
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", resource+" not found"))
	case errors.As(err, &delivery):
		failed := make([]FailedRecipient, len(delivery.Failures))
		for i, f := range delivery.Failures {
			failed[i] = FailedRecipient{ParticipantID: f.ParticipantID, Email: f.Email}
		}
		s.log.WarnContext(r.Context(), "mail delivery failed", "failed", len(failed), "error", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{
			Code:             "delivery_failed",
			Message:          "some invitations could not be delivered",
			FailedRecipients: failed,
		}})
	default:
		s.log.ErrorContext(r.Context(), "unhandled error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// plainMessage strips the layer prefixes from a wrapped sentinel error.
// e.g. "service.TripService.Create: invalid trip dates: ends_at must not be before starts_at"
// → "invalid trip dates: ends_at must not be before starts_at"
func plainMessage(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return msg[i:]
	}
	return sentinel.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
