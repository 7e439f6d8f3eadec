package models

// NoDigitsMessage is displayed when OCR ran but produced nothing usable.
const NoDigitsMessage = "нічого не знайдено."

// Outcome is the result of analyzing one photo. Digits is nil when no route
// number could be extracted.
type Outcome struct {
	Label  RouteLabel
	Digits *string
}

// HasDigits reports whether a route number was found.
func (o Outcome) HasDigits() bool { return o.Digits != nil }

// DigitsOr returns the route number or fallback when none was found.
func (o Outcome) DigitsOr(fallback string) string {
	if o.Digits == nil {
		return fallback
	}
	return *o.Digits
}
