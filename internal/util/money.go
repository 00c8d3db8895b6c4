package util

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders amounts for display in the operating currency.
// Display is zero-decimal: installment prices are whole units and the admin
// screens never show cents.
type CurrencyFormatter struct {
	symbol  string
	printer *message.Printer
}

// NewCurrencyFormatter creates a formatter for the given currency symbol and
// BCP 47 locale tag. An unparseable locale falls back to English grouping.
func NewCurrencyFormatter(symbol, locale string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &CurrencyFormatter{
		symbol:  symbol,
		printer: message.NewPrinter(tag),
	}
}

// Format renders an amount with locale grouping and the currency symbol.
// The zero value renders as the defined zero string, never an error.
func (f *CurrencyFormatter) Format(amount decimal.Decimal) string {
	whole := amount.RoundDown(0).IntPart()
	return f.printer.Sprintf("%v %s", number.Decimal(whole), f.symbol)
}
