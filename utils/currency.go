// utils/currency.go
package utils

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// CentsToDollars converts a minor-unit amount into major units without rounding.
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DollarsToCents converts major units into cents, rounding half away from zero.
func DollarsToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// ParseAmount coerces a submitted form value into a decimal amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

// FormatCurrency renders cents as US dollars, e.g. 123456 -> "$1,234.56".
func FormatCurrency(cents int64) string {
	dollars := CentsToDollars(cents)
	sign := ""
	if dollars.IsNegative() {
		sign = "-"
		dollars = dollars.Abs()
	}
	f, _ := dollars.Float64()
	return sign + "$" + usdPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}
