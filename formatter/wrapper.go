package formatter

import (
	"net/http"

	"github.com/theoremus-urban-solutions/nextbus/utils"
)

// Envelope is the top-level body of every API response.
type Envelope struct {
	GeneratedAt string     `json:"generated_at"`
	Data        any        `json:"data,omitempty"`
	Error       *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Wrap stamps data with the current time.
func Wrap(data any) Envelope {
	return Envelope{GeneratedAt: utils.Iso8601Now(), Data: data}
}

// WrapAt stamps data with a fixed Unix time.
func WrapAt(data any, unixSeconds int64) Envelope {
	return Envelope{GeneratedAt: utils.Iso8601FromUnixSeconds(unixSeconds), Data: data}
}

// WrapError builds an error envelope for an HTTP status code.
func WrapError(code int, message string) Envelope {
	return Envelope{
		GeneratedAt: utils.Iso8601Now(),
		Error: &ErrorBody{
			Code:    code,
			Status:  http.StatusText(code),
			Message: message,
		},
	}
}
