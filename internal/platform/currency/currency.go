package currency

import (
	"fmt"
	"math"
	"strconv"
)

// FormatCOP renders a peso amount the way the receipts show it: rounded to
// whole pesos, dot thousands separators, leading $ sign.
func FormatCOP(value float64) string {
	rounded := int64(math.Round(value))
	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	digits := strconv.FormatInt(rounded, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	if negative {
		return fmt.Sprintf("-$ %s", grouped)
	}
	return fmt.Sprintf("$ %s", grouped)
}
