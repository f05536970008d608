package shared

import (
	"strings"
	"testing"
)

func TestCannedResponses(t *testing.T) {
	tests := []struct {
		code    int
		message string
		want    bool
	}{
		{200, "Success", true},
		{201, "Created", true},
		{400, "Bad Request", true},
		{401, "Unauthorized", true},
		{403, "Forbidden", true},
		{404, "Not Found", true},
		{500, "Internal Server Error", true},
		{200, "custom message", false},
		{409, "Conflict", false},
	}

	for _, tt := range tests {
		body, ok := canned(tt.code, tt.message)
		if ok != tt.want {
			t.Errorf("canned(%d, %q) ok = %v, want %v", tt.code, tt.message, ok, tt.want)
			continue
		}
		if !ok {
			continue
		}
		s := string(body)
		if !strings.Contains(s, tt.message) {
			t.Errorf("canned(%d, %q) body %q missing message", tt.code, tt.message, s)
		}
		if strings.Contains(s, `"data"`) {
			t.Errorf("canned(%d, %q) body %q carries a data field", tt.code, tt.message, s)
		}
	}
}
