package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"wayfarer/models"
)

var (
	ErrMixedCurrency = errors.New("offers use more than one currency")
	ErrNoOffers      = errors.New("no priced offers")
)

// Offer is one quoted fare.
type Offer struct {
	Price         float64 `json:"price"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	DepartureDate string  `json:"departureDate" validate:"required,datetime=2006-01-02"`
}

// SeasonStats summarizes the offers departing in one season.
type SeasonStats struct {
	Season  string  `json:"season"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
}

type SeasonalSummary struct {
	Currency string        `json:"currency"`
	Seasons  []SeasonStats `json:"seasons"`
	Cheapest string        `json:"cheapestSeason"`
}

// AverageBySeason groups offers by the season of their departure date.
// Offers with a non-positive price are ignored. Seasons without offers are omitted.
func AverageBySeason(offers []Offer) (SeasonalSummary, error) {
	type acc struct {
		sum   float64
		count int
		min   float64
	}
	var (
		buckets  [len(seasonOrder)]acc
		currency string
	)
	for i, o := range offers {
		if o.Price <= 0 {
			continue
		}
		cur := strings.ToUpper(strings.TrimSpace(o.Currency))
		if currency == "" {
			currency = cur
		} else if cur != currency {
			return SeasonalSummary{}, fmt.Errorf("%w: %s and %s", ErrMixedCurrency, currency, cur)
		}
		d, err := time.Parse(models.DateLayout, o.DepartureDate)
		if err != nil {
			return SeasonalSummary{}, fmt.Errorf("offer %d: invalid departure date: %w", i, err)
		}
		b := &buckets[SeasonOf(d)]
		if b.count == 0 || o.Price < b.min {
			b.min = o.Price
		}
		b.sum += o.Price
		b.count++
	}

	out := SeasonalSummary{Currency: currency, Seasons: []SeasonStats{}}
	cheapest := -1.0
	for _, s := range seasonOrder {
		b := buckets[s]
		if b.count == 0 {
			continue
		}
		avg := round2(b.sum / float64(b.count))
		out.Seasons = append(out.Seasons, SeasonStats{
			Season:  s.String(),
			Count:   b.count,
			Average: avg,
			Min:     b.min,
		})
		if cheapest < 0 || avg < cheapest {
			cheapest = avg
			out.Cheapest = s.String()
		}
	}
	if len(out.Seasons) == 0 {
		return SeasonalSummary{}, ErrNoOffers
	}
	return out, nil
}
