package domain

import (
	"fmt"
	"strings"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

func ParseOrderType(name string) (OrderType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "LIMIT":
		return OrderTypeLimit, nil
	case "MARKET":
		return OrderTypeMarket, nil
	default:
		return "", fmt.Errorf("%w: order type %q", ErrUnknownEnumValue, name)
	}
}

func (t OrderType) Valid() bool {
	return t == OrderTypeLimit || t == OrderTypeMarket
}

func (t OrderType) Wire() string {
	return string(t)
}

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

func ParseOrderSide(name string) (OrderSide, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "BUY":
		return OrderSideBuy, nil
	case "SELL":
		return OrderSideSell, nil
	default:
		return "", fmt.Errorf("%w: order side %q", ErrUnknownEnumValue, name)
	}
}

func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

func (s OrderSide) Wire() string {
	return string(s)
}
