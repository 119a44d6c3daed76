package formatter

import (
	"encoding/json"
)

// ResponseBuilder serializes envelopes.
type ResponseBuilder struct {
	Indent bool
}

// NewResponseBuilder creates a new response builder for API responses
func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

// BuildJSON serializes a response envelope to JSON
func (rb *ResponseBuilder) BuildJSON(env Envelope) ([]byte, error) {
	if rb.Indent {
		return json.MarshalIndent(env, "", "  ")
	}
	return json.Marshal(env)
}
