package location

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol derives the display symbol for an ISO currency code by
// formatting a zero amount for the given locale and stripping digits,
// decimal/grouping marks, and whitespace, leaving only the symbol runes.
func CurrencySymbol(code, locale string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("invalid currency code %q: %w", code, err)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}

	formatted := message.NewPrinter(tag).Sprint(currency.Symbol(unit.Amount(0)))
	symbol := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || unicode.IsSpace(r) || r == '.' || r == ',' {
			return -1
		}
		return r
	}, formatted)

	if symbol == "" {
		return "", fmt.Errorf("no symbol for currency %q", code)
	}
	return symbol, nil
}

// FormatPrice renders an amount in the given currency for the given locale.
func FormatPrice(amount float64, code, locale string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("invalid currency code %q: %w", code, err)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}

	return message.NewPrinter(tag).Sprint(currency.Symbol(unit.Amount(amount))), nil
}
