package domain

import (
	"fmt"
	"strings"
)

// Currency is one of the broker's settlement currencies. The underlying
// string is the wire value the API expects.
type Currency string

const (
	CurrencyPesos      Currency = "ARS"
	CurrencyDolarMEP   Currency = "MEP"
	CurrencyDolarCable Currency = "CABLE"
)

// ParseCurrency resolves either the constant name ("PESOS") or the wire
// value ("ARS") to a Currency.
func ParseCurrency(name string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "PESOS", "ARS":
		return CurrencyPesos, nil
	case "DOLAR_MEP", "MEP", "USD":
		return CurrencyDolarMEP, nil
	case "DOLAR_CABLE", "CABLE":
		return CurrencyDolarCable, nil
	default:
		return "", fmt.Errorf("%w: currency %q", ErrUnknownEnumValue, name)
	}
}

func (c Currency) Valid() bool {
	switch c {
	case CurrencyPesos, CurrencyDolarMEP, CurrencyDolarCable:
		return true
	default:
		return false
	}
}

func (c Currency) Wire() string {
	return string(c)
}

func (c Currency) Label() string {
	switch c {
	case CurrencyPesos:
		return "Pesos"
	case CurrencyDolarMEP:
		return "Dolar MEP"
	case CurrencyDolarCable:
		return "Dolar Cable"
	default:
		return string(c)
	}
}
