package models

import "time"

// Attraction is a point of interest as returned by the places source.
type Attraction struct {
	ID             string          `json:"id" bson:"id"`
	Name           string          `json:"name" bson:"name"`
	Location       string          `json:"location" bson:"location"`
	Rating         float64         `json:"rating" bson:"rating"` // 0–5
	Types          []string        `json:"types" bson:"types"`
	OpeningPeriods []OpeningPeriod `json:"openingPeriods,omitempty" bson:"opening_periods,omitempty"`
	PriceLevel     int             `json:"priceLevel,omitempty" bson:"price_level,omitempty"` // 0–4
	Description    string          `json:"description,omitempty" bson:"description,omitempty"`
	Photo          string          `json:"photo,omitempty" bson:"photo,omitempty"`
	OpenNow        *bool           `json:"openNow,omitempty" bson:"open_now,omitempty"`
	Geometry       Coordinates     `json:"geometry" bson:"geometry"`
}

// OpeningPeriod is one opening window. Open and Close are HHMM strings.
type OpeningPeriod struct {
	Day   time.Weekday `json:"day" bson:"day"`
	Open  string       `json:"open" bson:"open"`
	Close string       `json:"close,omitempty" bson:"close,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

// TimeSlot is an hour window on a 24h clock.
type TimeSlot struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}
