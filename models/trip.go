package models

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Intensity controls how many slots a day gets.
type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityFull     Intensity = "full"
)

func ParseIntensity(s string) (Intensity, error) {
	switch in := Intensity(strings.ToLower(strings.TrimSpace(s))); in {
	case IntensityLight, IntensityModerate, IntensityFull:
		return in, nil
	default:
		return "", fmt.Errorf("unknown intensity %q", s)
	}
}

type TravelStyle string

const (
	StyleBudget   TravelStyle = "budget"
	StyleStandard TravelStyle = "standard"
	StyleLuxury   TravelStyle = "luxury"
)

func ParseTravelStyle(s string) (TravelStyle, error) {
	switch st := TravelStyle(strings.ToLower(strings.TrimSpace(s))); st {
	case StyleBudget, StyleStandard, StyleLuxury:
		return st, nil
	case "":
		return StyleStandard, nil
	default:
		return "", fmt.Errorf("unknown travel style %q", s)
	}
}

// DateRange is an inclusive pair of calendar dates.
type DateRange struct {
	From string `json:"from" bson:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" bson:"to" validate:"required,datetime=2006-01-02"`
}

// Parse returns the range bounds as UTC midnights.
func (d DateRange) Parse() (time.Time, time.Time, error) {
	from, err := time.Parse(DateLayout, d.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := time.Parse(DateLayout, d.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
	}
	return from, to, nil
}
