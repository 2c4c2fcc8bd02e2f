package validation

import (
	"strings"
	"testing"
)

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		shouldError bool
		errorMsg    string
	}{
		{
			name:        "empty URL",
			input:       "",
			shouldError: true,
			errorMsg:    "URL cannot be empty",
		},
		{
			name:        "whitespace-only URL",
			input:       "   ",
			shouldError: true,
			errorMsg:    "URL cannot be empty",
		},
		{
			name:     "URL without protocol gets HTTPS",
			input:    "dev.to/api",
			expected: "https://dev.to/api",
		},
		{
			name:     "HTTP URL preserved",
			input:    "http://127.0.0.1:3000",
			expected: "http://127.0.0.1:3000",
		},
		{
			name:     "trailing slash stripped",
			input:    "https://dev.to/api/",
			expected: "https://dev.to/api",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  https://dev.to/api  ",
			expected: "https://dev.to/api",
		},
		{
			name:        "too long",
			input:       "https://example.com/" + strings.Repeat("a", 2048),
			shouldError: true,
			errorMsg:    "URL too long",
		},
		{
			name:        "injection characters rejected",
			input:       "https://example.com/<script>",
			shouldError: true,
			errorMsg:    "invalid characters",
		},
		{
			name:     "non-http scheme treated as hostname",
			input:    "ftp://example.com",
			expected: "https://ftp://example.com", // Protocol addition happens before scheme validation
		},
		{
			name:        "missing host",
			input:       "https://",
			shouldError: true,
			errorMsg:    "valid hostname",
		},
		{
			name:        "query string rejected",
			input:       "https://dev.to/api?page=2",
			shouldError: true,
			errorMsg:    "query string or fragment",
		},
		{
			name:        "fragment rejected",
			input:       "https://dev.to/api#top",
			shouldError: true,
			errorMsg:    "query string or fragment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateBaseURL(tt.input)

			if tt.shouldError {
				if err == nil {
					t.Fatalf("ValidateBaseURL(%q) expected error, got %q", tt.input, got)
				}
				if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("ValidateBaseURL(%q) error = %q, want it to contain %q", tt.input, err.Error(), tt.errorMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("ValidateBaseURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ValidateBaseURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
