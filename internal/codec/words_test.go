package codec

import (
	"testing"

	"toya/internal/core"
)

func TestAmountToWords(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{100, "One Dollar And Zero Cents"},
		{150, "One Dollar And Fifty Cents"},
		{101, "One Dollar And One Cent"},
		{123450, "One Thousand Two Hundred Thirty-Four Dollars And Fifty Cents"},
		{200, "Two Dollars And Zero Cents"},
		{0, "Zero Dollars And Zero Cents"},
	}
	for _, tc := range cases {
		if got := AmountToWords(core.Money{Cents: tc.cents}); got != tc.want {
			t.Errorf("AmountToWords(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestAmountToWordsFallback(t *testing.T) {
	// Negative amounts cannot appear on receipts but must still not panic;
	// the converter falls back to the numeric form.
	if got := AmountToWords(core.Money{Cents: -150}); got != "-1.50" {
		t.Fatalf("fallback = %q, want \"-1.50\"", got)
	}
}

func TestTitleCase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"one thousand", "One Thousand"},
		{"thirty-four", "Thirty-Four"},
		{"zero", "Zero"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := titleCase(tc.in); got != tc.want {
			t.Errorf("titleCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
