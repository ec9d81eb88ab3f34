package utils

import "testing"

func TestFormatPhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"12345678", "+56912345678"},
		{"912345678", "+56912345678"},
		{"56912345678", "+56912345678"},
		{"+56 9 1234 5678", "+56912345678"},
		{"9 1234-5678", "+56912345678"},
		{"123", "123"}, // unrecognized length, returned as given
	}
	for _, c := range cases {
		if got := FormatPhoneNumber(c.in); got != c.want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{10000, "10.000"},
		{1234567, "1.234.567"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.in); got != c.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
