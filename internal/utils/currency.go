package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatPrice renders an amount as an integer-rounded, comma-grouped string
// with a fixed currency prefix, e.g. FormatPrice(1234567.4, "UZS") ==
// "UZS 1,234,567". Presentation only; stored amounts stay numeric.
func FormatPrice(amount float64, prefix string) string {
	rounded := int64(math.Round(amount))

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	digits := strconv.FormatInt(rounded, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	grouped := b.String()
	if negative {
		grouped = "-" + grouped
	}
	if prefix == "" {
		return grouped
	}
	return prefix + " " + grouped
}
