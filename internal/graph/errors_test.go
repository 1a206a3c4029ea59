package graph

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantCode    int
		wantSubcode int
	}{
		{
			name:        "Envelope",
			status:      400,
			body:        `{"error":{"message":"bad metric","type":"OAuthException","code":100,"error_subcode":33,"fbtrace_id":"t1"}}`,
			wantMessage: "bad metric",
			wantCode:    100,
			wantSubcode: 33,
		},
		{
			name:        "PlainText",
			status:      502,
			body:        "  Bad Gateway \n",
			wantMessage: "Bad Gateway",
		},
		{
			name:        "JSONWithoutEnvelope",
			status:      500,
			body:        `{"oops":true}`,
			wantMessage: `{"oops":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAPIError(tt.status, []byte(tt.body))
			if got.Status != tt.status {
				t.Errorf("Status = %d, want %d", got.Status, tt.status)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.Code != tt.wantCode || got.Subcode != tt.wantSubcode {
				t.Errorf("Code/Subcode = %d/%d, want %d/%d", got.Code, got.Subcode, tt.wantCode, tt.wantSubcode)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Status: 400, Code: 100, Subcode: 33, Message: "bad metric"}
	msg := err.Error()

	for _, want := range []string{"status 400", "code 100", "subcode 33", "bad metric"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if got := (&APIError{Status: 500}).Error(); got != "graph api error (status 500)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAsAPIError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &APIError{Status: 403})

	apiErr, ok := AsAPIError(wrapped)
	if !ok || apiErr.Status != 403 {
		t.Errorf("AsAPIError() = %v, %v", apiErr, ok)
	}

	if _, ok := AsAPIError(errors.New("plain")); ok {
		t.Error("AsAPIError() should fail for plain errors")
	}
}
