package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the Graph API.
type APIError struct {
	Message string
	Type    string
	TraceID string
	Status  int
	Code    int
	Subcode int
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph api error (status %d", e.Status)
	if e.Code != 0 {
		fmt.Fprintf(&b, ", code %d", e.Code)
	}
	if e.Subcode != 0 {
		fmt.Fprintf(&b, ", subcode %d", e.Subcode)
	}
	b.WriteString(")")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

type errorEnvelope struct {
	Error *struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		FBTraceID string `json:"fbtrace_id"`
		Code      int    `json:"code"`
		Subcode   int    `json:"error_subcode"`
	} `json:"error"`
}

// parseAPIError decodes the provider's error envelope. Bodies that are not
// an envelope are kept verbatim as the message.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Message = env.Error.Message
		apiErr.Type = env.Error.Type
		apiErr.TraceID = env.Error.FBTraceID
		apiErr.Code = env.Error.Code
		apiErr.Subcode = env.Error.Subcode
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
