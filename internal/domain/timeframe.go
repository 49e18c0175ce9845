package domain

import (
	"fmt"
	"strings"
)

type PerformanceTimeframe string

const (
	TimeframeDaily      PerformanceTimeframe = "daily"
	TimeframeHistorical PerformanceTimeframe = "historical"
	TimeframeRange      PerformanceTimeframe = "range"
)

func ParsePerformanceTimeframe(name string) (PerformanceTimeframe, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "daily":
		return TimeframeDaily, nil
	case "historical":
		return TimeframeHistorical, nil
	case "range":
		return TimeframeRange, nil
	default:
		return "", fmt.Errorf("%w: performance timeframe %q", ErrUnknownEnumValue, name)
	}
}

func (t PerformanceTimeframe) Valid() bool {
	switch t {
	case TimeframeDaily, TimeframeHistorical, TimeframeRange:
		return true
	default:
		return false
	}
}

func (t PerformanceTimeframe) Wire() string {
	return string(t)
}
