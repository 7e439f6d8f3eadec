package models

import "strings"

// RouteLabel is the vehicle category produced by the classifier.
type RouteLabel int

const (
	Unknown RouteLabel = iota
	Bus
	Trolleybus
	Tram
)

func (l RouteLabel) String() string {
	switch l {
	case Bus:
		return "bus"
	case Trolleybus:
		return "trolleybus"
	case Tram:
		return "tram"
	default:
		return "unknown"
	}
}

// Message returns the user-facing phrase shown next to the scan result.
func (l RouteLabel) Message() string {
	switch l {
	case Bus:
		return "Це автобус."
	case Trolleybus:
		return "Це тролейбус."
	case Tram:
		return "Це трамвай."
	default:
		return "Невідомий транспорт."
	}
}

// ParseRouteLabel maps a name (case-insensitive) back to a label. Unrecognized
// names become Unknown.
func ParseRouteLabel(s string) RouteLabel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bus":
		return Bus
	case "trolleybus":
		return Trolleybus
	case "tram":
		return Tram
	}
	return Unknown
}
