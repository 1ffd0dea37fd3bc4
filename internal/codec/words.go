// Package codec builds the printable-receipt artifacts: the amount-in-words
// phrase and the QR payload/image.
package codec

import (
	"log/slog"
	"math"
	"strings"
	"unicode"

	"github.com/divan/num2words"

	"toya/internal/core"
)

// AmountToWords renders a currency amount as a title-cased English phrase,
// e.g. 1234.50 -> "One Thousand Two Hundred Thirty-Four Dollars And Fifty
// Cents". It never fails: anything the converter cannot handle falls back
// to the amount formatted with two decimals.
func AmountToWords(m core.Money) string {
	if m.Cents < 0 || m.Cents/100 > math.MaxInt32 {
		slog.Warn("Amount out of range for words conversion, using numeric fallback",
			"amount_cents", m.Cents)
		return m.Format2()
	}

	units := int(m.Cents / 100)
	cents := int(m.Cents % 100)
	unitWords := num2words.Convert(units)
	centWords := num2words.Convert(cents)
	if unitWords == "" || centWords == "" {
		slog.Warn("Words conversion produced empty output, using numeric fallback",
			"amount_cents", m.Cents)
		return m.Format2()
	}

	unitLabel := "Dollars"
	if units == 1 {
		unitLabel = "Dollar"
	}
	centLabel := "Cents"
	if cents == 1 {
		centLabel = "Cent"
	}
	return titleCase(unitWords) + " " + unitLabel + " And " + titleCase(centWords) + " " + centLabel
}

// titleCase upper-cases the first letter of every word, including the part
// after a hyphen ("thirty-four" -> "Thirty-Four").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	up := true
	for _, r := range s {
		if up && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			up = false
			continue
		}
		if r == ' ' || r == '-' {
			up = true
		}
		b.WriteRune(r)
	}
	return b.String()
}
