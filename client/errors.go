package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string

	// FailedRecipients is set when a trip confirmation could not deliver
	// every invitation.
	FailedRecipients []FailedRecipient
}

// FailedRecipient is an invitee whose invitation mail was not delivered.
type FailedRecipient struct {
	ParticipantID string `json:"participant_id"`
	Email         string `json:"email"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("planner: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("planner: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsValidation reports whether err is a 400 from the API.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}

type errorEnvelope struct {
	Error struct {
		Code             string              `json:"code"`
		Message          string              `json:"message"`
		Fields           map[string][]string `json:"fields"`
		FailedRecipients []FailedRecipient   `json:"failed_recipients"`
	} `json:"error"`
}

// decodeAPIError reads an error response. Bodies that are not the JSON
// envelope (a proxy's HTML page, say) keep their text as the message.
func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
		if len(body) > 0 {
			apiErr.Message = string(body)
		}
		return apiErr
	}
	apiErr.Code = env.Error.Code
	apiErr.Message = env.Error.Message
	apiErr.Fields = env.Error.Fields
	apiErr.FailedRecipients = env.Error.FailedRecipients
	return apiErr
}
