package places

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wayfarer/models"
	"wayfarer/utils"
)

type sample struct {
	suffix string
	types  []string
	rating float64
	price  int
	closed []time.Weekday
}

var samples = []sample{
	{suffix: "Old Town", types: []string{"tourist_attraction", "point_of_interest"}, rating: 4.7},
	{suffix: "Museum of Art", types: []string{"museum"}, rating: 4.6, price: 2, closed: []time.Weekday{time.Monday}},
	{suffix: "Botanical Garden", types: []string{"park"}, rating: 4.5, price: 1},
	{suffix: "Cathedral", types: []string{"church", "tourist_attraction"}, rating: 4.4},
	{suffix: "Central Market", types: []string{"food", "market"}, rating: 4.3, closed: []time.Weekday{time.Sunday}},
	{suffix: "History Museum", types: []string{"museum"}, rating: 4.2, price: 2, closed: []time.Weekday{time.Monday}},
	{suffix: "Riverside Walk", types: []string{"park", "natural_feature"}, rating: 4.1},
	{suffix: "Observation Deck", types: []string{"tourist_attraction"}, rating: 4.0, price: 3},
}

// StaticSource serves a fixed set of sample attractions for any city.
// It backs local development when no Places API key is configured.
type StaticSource struct{}

func (StaticSource) Attractions(_ context.Context, city string) ([]models.Attraction, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, ErrEmptyCity
	}
	slug := strings.ReplaceAll(utils.NormalizeCity(city), " ", "-")
	out := make([]models.Attraction, 0, len(samples))
	for i, s := range samples {
		a := models.Attraction{
			ID:         fmt.Sprintf("%s-%d", slug, i),
			Name:       city + " " + s.suffix,
			Location:   city,
			Rating:     s.rating,
			Types:      s.types,
			PriceLevel: s.price,
		}
		if len(s.closed) > 0 {
			a.OpeningPeriods = openExcept(s.closed)
		}
		out = append(out, a)
	}
	return out, nil
}

func openExcept(closed []time.Weekday) []models.OpeningPeriod {
	var periods []models.OpeningPeriod
	for d := time.Sunday; d <= time.Saturday; d++ {
		isClosed := false
		for _, c := range closed {
			if c == d {
				isClosed = true
				break
			}
		}
		if !isClosed {
			periods = append(periods, models.OpeningPeriod{Day: d, Open: "0900", Close: "1800"})
		}
	}
	return periods
}
