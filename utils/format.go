package utils

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatMoney renders v as $1,234.56.
func FormatMoney(v float64) string {
	if v < 0 {
		return "-$" + printer.Sprintf("%.2f", -v)
	}
	return "$" + printer.Sprintf("%.2f", v)
}

// FormatCount renders a whole number with grouping separators.
func FormatCount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatPercent renders v (already scaled to 0..100) with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Title upper-cases the first letter of every word.
func Title(s string) string {
	// a Caser keeps state, so one per call
	return cases.Title(language.English).String(s)
}

// IsMoneyColumn reports whether a column holds currency amounts.
func IsMoneyColumn(col string) bool {
	c := strings.ToLower(col)
	if strings.Contains(c, "percentage") {
		return false
	}
	for _, k := range []string{"spent", "revenue", "amount", "price", "avg_order"} {
		if strings.Contains(c, k) {
			return true
		}
	}
	return false
}

// FormatCell renders a result value for display.
func FormatCell(col string, v interface{}) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		if IsMoneyColumn(col) {
			return FormatMoney(n)
		}
		return printer.Sprintf("%.2f", n)
	case int64:
		if IsMoneyColumn(col) {
			return FormatMoney(float64(n))
		}
		return printer.Sprintf("%d", n)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", n)
	}
}
