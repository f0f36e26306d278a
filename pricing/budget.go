package pricing

import (
	"errors"
	"math"
	"time"

	"wayfarer/models"
)

var (
	ErrInvalidRange     = errors.New("end date is before start date")
	ErrInvalidTravelers = errors.New("travelers must be at least 1")
)

// Currency of every estimate.
const Currency = "USD"

// Estimate is the projected cost of a trip.
type Estimate struct {
	City           string             `json:"city"`
	Tier           string             `json:"tier"`
	Style          models.TravelStyle `json:"style"`
	From           string             `json:"from"`
	To             string             `json:"to"`
	Days           int                `json:"days"`
	Travelers      int                `json:"travelers"`
	Currency       string             `json:"currency"`
	Breakdown      DailyCost          `json:"breakdown"`
	Total          float64            `json:"total"`
	PerPersonDaily float64            `json:"perPersonDaily"`
}

// EstimateBudget prices every day of the trip with that day's seasonal multiplier.
// Lodging is charged per room of two, everything else per traveler.
func EstimateBudget(city string, style models.TravelStyle, from, to time.Time, travelers int) (Estimate, error) {
	if travelers < 1 {
		return Estimate{}, ErrInvalidTravelers
	}
	from = dateOnly(from)
	to = dateOnly(to)
	if to.Before(from) {
		return Estimate{}, ErrInvalidRange
	}
	tier := TierFor(city)
	base, err := baseCost(tier)
	if err != nil {
		return Estimate{}, err
	}
	factor, err := styleFactor(style)
	if err != nil {
		return Estimate{}, err
	}
	rooms := float64((travelers + 1) / 2)
	people := float64(travelers)

	var sum DailyCost
	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		m, err := SeasonOf(d).Multiplier()
		if err != nil {
			return Estimate{}, err
		}
		day := base.scale(factor * m)
		day.Lodging *= rooms
		day.Food *= people
		day.Activities *= people
		day.Transport *= people
		sum = sum.add(day)
		days++
	}

	sum = DailyCost{
		Lodging:    round2(sum.Lodging),
		Food:       round2(sum.Food),
		Activities: round2(sum.Activities),
		Transport:  round2(sum.Transport),
	}
	total := round2(sum.Total())
	return Estimate{
		City:           city,
		Tier:           tier.String(),
		Style:          style,
		From:           from.Format(models.DateLayout),
		To:             to.Format(models.DateLayout),
		Days:           days,
		Travelers:      travelers,
		Currency:       Currency,
		Breakdown:      sum,
		Total:          total,
		PerPersonDaily: round2(total / float64(days) / people),
	}, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
