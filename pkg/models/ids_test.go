package models

import "testing"

func TestNormalizeCustomerID(t *testing.T) {
	tests := map[string]string{
		"12347":     "12347",
		"12347.0":   "12347",
		" 17850.0 ": "17850",
		"12347.5":   "12347.5",
		"ABC":       "ABC",
		"":          "",
	}
	for in, want := range tests {
		if got := NormalizeCustomerID(in); got != want {
			t.Errorf("NormalizeCustomerID(%q) = %q, want %q", in, got, want)
		}
	}
}
