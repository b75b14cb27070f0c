package domain

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// summaryLocale fija la agrupación de miles con punto (1.234.567), igual que en Colombia.
var summaryLocale = language.Spanish

// FormatSummaryValue da formato monetario a summary_value.
// Sin valor o vacío devuelve ""; si el valor no es numérico devuelve el texto original.
func FormatSummaryValue(s Summary) string {
	if s.SummaryValue == nil || *s.SummaryValue == "" {
		return ""
	}
	raw := *s.SummaryValue

	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return raw
	}

	p := message.NewPrinter(summaryLocale)
	formatted := p.Sprint(number.Decimal(amount, number.MaxFractionDigits(2)))

	currency := ""
	if s.SummaryValueCurrency != nil {
		currency = strings.TrimSpace(*s.SummaryValueCurrency)
	}
	if currency == "" {
		return "$" + formatted
	}
	return currency + " $" + formatted
}
