package pricing

import (
	"errors"
	"fmt"
	"time"

	"wayfarer/models"
	"wayfarer/utils"
)

var (
	ErrUnknownSeason = errors.New("unknown season")
	ErrUnknownTier   = errors.New("unknown city tier")
	ErrUnknownStyle  = errors.New("unknown travel style")
)

// Season is a northern-hemisphere meteorological season.
type Season int

const (
	Winter Season = iota
	Spring
	Summer
	Autumn
)

var seasonOrder = [...]Season{Winter, Spring, Summer, Autumn}

func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Autumn
	}
}

func (s Season) String() string {
	switch s {
	case Winter:
		return "winter"
	case Spring:
		return "spring"
	case Summer:
		return "summer"
	case Autumn:
		return "autumn"
	default:
		return fmt.Sprintf("Season(%d)", int(s))
	}
}

// Multiplier scales daily costs for demand in the season.
func (s Season) Multiplier() (float64, error) {
	switch s {
	case Winter:
		return 0.85, nil
	case Spring:
		return 1.0, nil
	case Summer:
		return 1.25, nil
	case Autumn:
		return 0.95, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownSeason, int(s))
	}
}

// CityTier groups destinations by cost of living.
type CityTier int

const (
	TierValue CityTier = iota
	TierStandard
	TierPremium
)

// DefaultTier applies to cities not in the known table.
const DefaultTier = TierStandard

var knownCities = map[string]CityTier{
	"amsterdam":   TierPremium,
	"london":      TierPremium,
	"new york":    TierPremium,
	"paris":       TierPremium,
	"singapore":   TierPremium,
	"tokyo":       TierPremium,
	"zurich":      TierPremium,
	"barcelona":   TierStandard,
	"berlin":      TierStandard,
	"lisbon":      TierStandard,
	"madrid":      TierStandard,
	"rome":        TierStandard,
	"seoul":       TierStandard,
	"bangkok":     TierValue,
	"budapest":    TierValue,
	"hanoi":       TierValue,
	"istanbul":    TierValue,
	"krakow":      TierValue,
	"lima":        TierValue,
	"mexico city": TierValue,
	"prague":      TierValue,
}

func TierFor(city string) CityTier {
	if t, ok := knownCities[utils.NormalizeCity(city)]; ok {
		return t
	}
	return DefaultTier
}

func (t CityTier) String() string {
	switch t {
	case TierValue:
		return "value"
	case TierStandard:
		return "standard"
	case TierPremium:
		return "premium"
	default:
		return fmt.Sprintf("CityTier(%d)", int(t))
	}
}

// DailyCost is a per-day amount in USD split by category.
type DailyCost struct {
	Lodging    float64 `json:"lodging"`
	Food       float64 `json:"food"`
	Activities float64 `json:"activities"`
	Transport  float64 `json:"transport"`
}

func (d DailyCost) Total() float64 {
	return d.Lodging + d.Food + d.Activities + d.Transport
}

func (d DailyCost) scale(f float64) DailyCost {
	return DailyCost{
		Lodging:    d.Lodging * f,
		Food:       d.Food * f,
		Activities: d.Activities * f,
		Transport:  d.Transport * f,
	}
}

func (d DailyCost) add(o DailyCost) DailyCost {
	return DailyCost{
		Lodging:    d.Lodging + o.Lodging,
		Food:       d.Food + o.Food,
		Activities: d.Activities + o.Activities,
		Transport:  d.Transport + o.Transport,
	}
}

// baseCost is the standard-style daily cost for one traveler in one room.
func baseCost(t CityTier) (DailyCost, error) {
	switch t {
	case TierValue:
		return DailyCost{Lodging: 40, Food: 25, Activities: 15, Transport: 8}, nil
	case TierStandard:
		return DailyCost{Lodging: 110, Food: 50, Activities: 35, Transport: 15}, nil
	case TierPremium:
		return DailyCost{Lodging: 200, Food: 80, Activities: 55, Transport: 25}, nil
	default:
		return DailyCost{}, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
}

func styleFactor(s models.TravelStyle) (float64, error) {
	switch s {
	case models.StyleBudget:
		return 0.6, nil
	case models.StyleStandard:
		return 1.0, nil
	case models.StyleLuxury:
		return 2.5, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, s)
	}
}
