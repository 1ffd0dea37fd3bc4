package core

import "testing"

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-05", true},
		{"2024-01-05T10:30:00", true},
		{"2024-01-05T10:30:00Z", true},
		{"2024-01-05T10:30:00+03:00", true},
		{"05/01/2024", false},
		{"not a date", false},
		{"", false},
	}
	for _, tc := range cases {
		_, err := ParseDate(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseDate(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseDate(%q) expected error", tc.in)
		}
	}
}

func TestDateOnly(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2024-01-05", "2024-01-05"},
		{"2024-01-05T10:30:00", "2024-01-05"},
		{" 2024-01-05 ", "2024-01-05"},
	}
	for _, tc := range cases {
		if got := DateOnly(tc.in); got != tc.want {
			t.Errorf("DateOnly(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
