// Package money formatea montos para mostrar (recibos PDF, CLI).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol moneda de la tienda (Naira).
const Symbol = "₦"

var printer = message.NewPrinter(language.English)

// Format devuelve el monto con separador de miles y dos decimales, ej. "₦1,234.50".
func Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + Symbol + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
