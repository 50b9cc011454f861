package names

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trims and title cases",
			input:    "  hero ",
			expected: "Hero",
		},
		{
			name:     "collapses whitespace",
			input:    "sir   robin\tthe\nbrave",
			expected: "Sir Robin The Brave",
		},
		{
			name:     "keeps inner capitals",
			input:    "mcKenzie",
			expected: "McKenzie",
		},
		{
			name:     "drops control characters",
			input:    "ar\x00ia\x07",
			expected: "Aria",
		},
		{
			name:     "filters profanity",
			input:    "hell raiser",
			expected: "Heck Raiser",
		},
		{
			name:     "word boundaries - partial matches should not be replaced",
			input:    "cassandra",
			expected: "Cassandra",
		},
		{
			name:     "non-latin names",
			input:    "игрок",
			expected: "Игрок",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	if _, err := Normalize(" \t\n"); err != ErrEmpty {
		t.Errorf("expected ErrEmpty for blank name, got %v", err)
	}
	if _, err := Normalize(strings.Repeat("a", MaxLength+1)); err != ErrTooLong {
		t.Errorf("expected ErrTooLong, got %v", err)
	}
	if _, err := Normalize(strings.Repeat("я", MaxLength)); err != nil {
		t.Errorf("a name of exactly %d runes should be accepted, got %v", MaxLength, err)
	}
}

func TestFilter_PreservesCase(t *testing.T) {
	tests := map[string]string{
		"DAMN":        "DANG",
		"damn":        "dang",
		"Damn":        "Dang",
		"clean words": "clean words",
	}
	for in, want := range tests {
		if got := Filter(in); got != want {
			t.Errorf("Filter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsProfanity(t *testing.T) {
	if !ContainsProfanity("what the hell") {
		t.Error("expected profanity to be detected")
	}
	if ContainsProfanity("shell") {
		t.Error("partial word should not match")
	}
}
