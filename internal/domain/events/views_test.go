package events

import (
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "evening",
			input:    time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC),
			expected: "01/06/2024 18:00",
		},
		{
			name:     "single digit hour is not padded",
			input:    time.Date(2023, 11, 5, 7, 4, 0, 0, time.UTC),
			expected: "05/11/2023 7:04",
		},
		{
			name:     "midnight",
			input:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: "01/01/2024 0:00",
		},
		{
			name:     "afternoon stays on 24-hour clock",
			input:    time.Date(2024, 12, 31, 13, 30, 0, 0, time.UTC),
			expected: "31/12/2024 13:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.input); got != tt.expected {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
