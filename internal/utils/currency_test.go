package utils

import "testing"

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount float64
		prefix string
		want   string
	}{
		{0, "UZS", "UZS 0"},
		{999, "UZS", "UZS 999"},
		{1000, "UZS", "UZS 1,000"},
		{1234567, "UZS", "UZS 1,234,567"},
		{1234567.4, "UZS", "UZS 1,234,567"},
		{1234567.5, "UZS", "UZS 1,234,568"},
		{-50000, "UZS", "UZS -50,000"},
		{42, "", "42"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.amount, tt.prefix); got != tt.want {
			t.Errorf("FormatPrice(%v, %q) = %q, want %q", tt.amount, tt.prefix, got, tt.want)
		}
	}
}
