package utils

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// clp prints integer amounts with Chilean grouping (dots every three
// digits).  A single printer is safe for concurrent use.
var clp = message.NewPrinter(language.MustParse("es-CL"))

// FormatCurrency renders an amount in pesos for display, e.g. 10000 ->
// "10.000".  Negative amounts keep their sign.
func FormatCurrency(amount int64) string {
	return clp.Sprintf("%d", amount)
}

// FormatPhoneNumber normalizes Chilean phone numbers to the +56 E.164
// form.  Eight digits are assumed to be a mobile number missing the 9
// prefix; nine digits a full national number.  Inputs that already carry
// a country code keep it; anything unrecognized is returned as given.
func FormatPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	clean := digits.String()
	switch {
	case len(clean) == 8:
		return "+569" + clean
	case len(clean) == 9:
		return "+56" + clean
	case len(clean) == 11 && strings.HasPrefix(clean, "56"):
		return "+" + clean
	case strings.HasPrefix(phone, "+"):
		return "+" + clean
	}
	return phone
}
