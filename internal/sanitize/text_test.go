package sanitize

import (
	"testing"
)

func TestText_RemovesAllHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "script tag",
			input:    `Game night <script>alert('xss')</script> downtown`,
			expected: `Game night  downtown`,
		},
		{
			name:     "inline event handler",
			input:    `<div onclick="alert('xss')">Board games</div>`,
			expected: `Board games`,
		},
		{
			name:     "mixed HTML tags",
			input:    `<b>Casual</b> <i>night</i> <a href="http://example.com">link</a>`,
			expected: `Casual night link`,
		},
		{
			name:     "plain text unchanged",
			input:    `Just plain text`,
			expected: `Just plain text`,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    `  padded  `,
			expected: `padded`,
		},
		{
			name:     "empty string",
			input:    ``,
			expected: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.expected {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
