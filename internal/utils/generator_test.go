package utils

import (
	"strings"
	"testing"
)

func TestAlphabet(t *testing.T) {
	if len(Alphabet) != 62 {
		t.Fatalf("len(Alphabet) = %d, want 62", len(Alphabet))
	}

	seen := make(map[rune]bool)
	for _, char := range Alphabet {
		if seen[char] {
			t.Errorf("Alphabet contains duplicate character %c", char)
		}
		seen[char] = true
	}
}

func TestGenerateShortCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateShortCode()
		if err != nil {
			t.Fatalf("GenerateShortCode() error = %v", err)
		}

		if len(code) != ShortCodeLength {
			t.Errorf("GenerateShortCode() length = %d, want %d", len(code), ShortCodeLength)
		}

		for _, char := range code {
			if !strings.ContainsRune(Alphabet, char) {
				t.Errorf("GenerateShortCode() contains invalid character: %c", char)
			}
		}

		if !IsShortCode(code) {
			t.Errorf("IsShortCode(%q) = false", code)
		}
	}
}

func TestGenerateShortCodeUniqueness(t *testing.T) {
	generated := make(map[string]bool)
	iterations := 1000

	for i := 0; i < iterations; i++ {
		code, err := GenerateShortCode()
		if err != nil {
			t.Fatalf("GenerateShortCode() error = %v", err)
		}

		if generated[code] {
			t.Errorf("GenerateShortCode() generated duplicate: %s", code)
		}
		generated[code] = true
	}
}

func TestGenerateShortCodeCoversAlphabet(t *testing.T) {
	seen := make(map[rune]bool)

	for i := 0; i < 2000; i++ {
		code, err := GenerateShortCode()
		if err != nil {
			t.Fatalf("GenerateShortCode() error = %v", err)
		}
		for _, char := range code {
			seen[char] = true
		}
	}

	for _, char := range Alphabet {
		if !seen[char] {
			t.Errorf("character %c never generated", char)
		}
	}
}

func TestIsShortCode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"abc123", true},
		{"ZZZZZZ", true},
		{"0aZ9zA", true},
		{"abc12", false},
		{"abc1234", false},
		{"abc-12", false},
		{"abc_12", false},
		{"", false},
		{"nonexistent", false},
	}

	for _, tt := range tests {
		if got := IsShortCode(tt.input); got != tt.want {
			t.Errorf("IsShortCode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
