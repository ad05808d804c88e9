package domain

import "testing"

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{400, "4.00"},
		{1234, "12.34"},
		{-200, "-2.00"},
		{-5, "-0.05"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"3", 300, true},
		{"3.5", 350, true},
		{"3.50", 350, true},
		{"0.05", 5, true},
		{"12.34", 1234, true},
		{"0", 0, true},
		{"3.505", 0, false},
		{"abc", 0, false},
		{"3.", 0, false},
		{".5", 0, false},
		{"", 0, false},
		{"-2", -200, true},
	}
	for _, tt := range tests {
		cents, ok := ParseAmount(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseAmount(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && cents != tt.cents {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, cents, tt.cents)
		}
	}
}
