package domain

import (
	"fmt"
	"strings"
)

// Segment is the market venue segment an instrument trades on. FCI funds
// have no BYMA segment code and use their ticker as-is.
type Segment string

const (
	SegmentDefault Segment = "C"
	SegmentFCI     Segment = "FCI"
	SegmentOptions Segment = "O"
	SegmentRepo    Segment = "U"
)

func ParseSegment(name string) (Segment, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEFAULT", "C":
		return SegmentDefault, nil
	case "FCI":
		return SegmentFCI, nil
	case "OPTIONS", "O":
		return SegmentOptions, nil
	case "REPO", "U":
		return SegmentRepo, nil
	default:
		return "", fmt.Errorf("%w: segment %q", ErrUnknownEnumValue, name)
	}
}

func (s Segment) Valid() bool {
	switch s {
	case SegmentDefault, SegmentFCI, SegmentOptions, SegmentRepo:
		return true
	default:
		return false
	}
}

func (s Segment) Wire() string {
	return string(s)
}
