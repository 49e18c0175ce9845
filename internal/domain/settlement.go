package domain

import (
	"fmt"
	"strings"
)

// Settlement is the trade settlement date: immediate (CI), next day (24hs)
// or two days out (48hs).
type Settlement string

const (
	SettlementT0 Settlement = "CI"
	SettlementT1 Settlement = "24hs"
	SettlementT2 Settlement = "48hs"
)

func ParseSettlement(name string) (Settlement, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "T0", "CI":
		return SettlementT0, nil
	case "T1", "24HS":
		return SettlementT1, nil
	case "T2", "48HS":
		return SettlementT2, nil
	default:
		return "", fmt.Errorf("%w: settlement %q", ErrUnknownEnumValue, name)
	}
}

func (s Settlement) Valid() bool {
	switch s {
	case SettlementT0, SettlementT1, SettlementT2:
		return true
	default:
		return false
	}
}

func (s Settlement) Wire() string {
	return string(s)
}
