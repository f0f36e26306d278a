package itinerary

import (
	"time"

	"wayfarer/models"
)

// IsOpen reports whether an attraction is open on the given calendar day.
// Attractions without opening data are treated as always open.
// Only the weekday is compared, never the hour.
func IsOpen(a models.Attraction, date time.Time) bool {
	if len(a.OpeningPeriods) == 0 {
		return true
	}
	day := date.Weekday()
	for _, p := range a.OpeningPeriods {
		if p.Day == day {
			return true
		}
	}
	return false
}
