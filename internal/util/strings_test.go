package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("hello world")

	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "hello",
			maxWidth: 10,
			expected: "hello",
		},
		{
			name:     "exact width unchanged",
			input:    "hello",
			maxWidth: 5,
			expected: "hello",
		},
		{
			name:     "long string truncated",
			input:    "hello world",
			maxWidth: 8,
			expected: "hello...",
		},
		{
			name:     "very small maxWidth returns ellipsis",
			input:    "hello",
			maxWidth: 3,
			expected: "...",
		},
		{
			name:     "zero maxWidth returns ellipsis",
			input:    "hello",
			maxWidth: 0,
			expected: "...",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			maxWidth: 10,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateANSI(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("TruncateANSI(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
		})
	}

	t.Run("styled string keeps width budget", func(t *testing.T) {
		got := TruncateANSI(styled, 8)
		if width := lipgloss.Width(got); width > 8 {
			t.Errorf("lipgloss.Width(truncated) = %d, want <= 8", width)
		}
	})
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single line", "hello", "hello"},
		{"multi line", "first\nsecond\nthird", "first"},
		{"leading blank lines skipped", "\n\n  \nanswer here\nmore", "answer here"},
		{"whitespace trimmed", "  padded  \nnext", "padded"},
		{"empty string", "", ""},
		{"only whitespace", " \n\t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstLine(tt.input); got != tt.expected {
				t.Errorf("FirstLine(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
