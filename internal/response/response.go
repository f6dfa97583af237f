// Package response builds the uniform envelope every API call returns,
// success or failure.
package response

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bwalczak/noteboard/internal/model"
)

// Envelope is the response body shape shared by all endpoints. Unset
// fields are left out of the serialized form; Data distinguishes a nil
// slice (omitted) from an empty one (serialized as []).
type Envelope struct {
	Reason     string       `json:"reason,omitempty"`
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message,omitempty"`
	TimeStamp  string       `json:"timeStamp"`
	Status     string       `json:"status"`
	Data       []model.Note `json:"data,omitzero"`
}

// Success builds an envelope for a completed operation.
func Success(code int, message string, at time.Time, data []model.Note) Envelope {
	return Envelope{
		StatusCode: code,
		Status:     statusDescriptor(code),
		Message:    message,
		TimeStamp:  model.FormatTime(at),
		Data:       data,
	}
}

// Failure builds an envelope carrying an error reason and no data.
func Failure(code int, reason string, at time.Time) Envelope {
	return Envelope{
		StatusCode: code,
		Status:     statusDescriptor(code),
		Reason:     reason,
		TimeStamp:  model.FormatTime(at),
	}
}

// Write serializes the envelope with its own status code.
func Write(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	json.NewEncoder(w).Encode(env)
}

// statusDescriptor renders a status code as its upper-snake descriptor,
// e.g. 201 -> "CREATED", 404 -> "NOT_FOUND".
func statusDescriptor(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
