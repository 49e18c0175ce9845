package domain

import (
	"fmt"
	"strings"
)

// BYMA wire codes differ from the broker's own enum values, so the long
// ticker carries its own settlement and currency alphabet.
var (
	bymaSettlements = map[Settlement]string{
		SettlementT0: "0001",
		SettlementT1: "0002",
		SettlementT2: "0003",
	}
	bymaCurrencies = map[Currency]string{
		CurrencyPesos:      "ARS",
		CurrencyDolarMEP:   "USD",
		CurrencyDolarCable: "",
	}
)

// LongTicker is the fully qualified instrument identifier used on order and
// market-data endpoints: TICKER-SETTLEMENT-SEGMENT-CT-CURRENCY, where CT
// marks the BYMA venue. FCI funds are addressed by their bare ticker.
type LongTicker struct {
	Ticker     string
	Settlement Settlement
	Segment    Segment
	Currency   Currency
}

// BuildLongTicker formats the long ticker for a given instrument. It does
// not validate that the ticker actually trades on the given segment; use
// instrument search when unsure.
func BuildLongTicker(ticker string, settlement Settlement, currency Currency, segment Segment) string {
	if segment == SegmentFCI {
		return strings.ToUpper(ticker)
	}

	return fmt.Sprintf("%s-%s-%s-CT-%s",
		strings.ToUpper(ticker),
		bymaSettlements[settlement],
		segment.Wire(),
		bymaCurrencies[currency],
	)
}

// CurrencyCode returns the BYMA currency code embedded in the long ticker.
func (lt LongTicker) CurrencyCode() string {
	return bymaCurrencies[lt.Currency]
}

func ParseLongTicker(long string) (LongTicker, error) {
	parts := strings.Split(long, "-")
	if len(parts) != 5 || parts[3] != "CT" {
		return LongTicker{}, fmt.Errorf("malformed long ticker %q", long)
	}

	parsed := LongTicker{Ticker: parts[0]}

	for settlement, code := range bymaSettlements {
		if code == parts[1] {
			parsed.Settlement = settlement
		}
	}
	if parsed.Settlement == "" {
		return LongTicker{}, fmt.Errorf("long ticker %q: unknown settlement code %q", long, parts[1])
	}

	segment, err := ParseSegment(parts[2])
	if err != nil {
		return LongTicker{}, fmt.Errorf("long ticker %q: %w", long, err)
	}
	parsed.Segment = segment

	for currency, code := range bymaCurrencies {
		if code != "" && code == parts[4] {
			parsed.Currency = currency
		}
	}
	if parsed.Currency == "" {
		return LongTicker{}, fmt.Errorf("long ticker %q: unknown currency code %q", long, parts[4])
	}

	return parsed, nil
}
