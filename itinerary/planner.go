package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"wayfarer/models"
)

var (
	ErrDataUnavailable = errors.New("attraction data unavailable")
	ErrNoAttractions   = errors.New("no attractions found")
	ErrSuperseded      = errors.New("superseded by a newer update")
	ErrOutOfRange      = errors.New("index out of range")
	ErrItemNotFound    = errors.New("item not found")
	ErrEmptyPlan       = errors.New("no plan to save")
)

// AttractionSource loads the attractions for a city.
type AttractionSource interface {
	Attractions(ctx context.Context, city string) ([]models.Attraction, error)
}

// Sink persists a plan snapshot and returns its id.
type Sink interface {
	SaveItinerary(ctx context.Context, userID string, req SaveRequest) (string, error)
}

// TripParams are the inputs that trigger a full regeneration when any of them changes.
type TripParams struct {
	City        string
	From        time.Time
	To          time.Time
	Intensity   models.Intensity
	TravelStyle models.TravelStyle
}

func (p TripParams) DateRange() models.DateRange {
	return models.DateRange{From: p.From.Format(models.DateLayout), To: p.To.Format(models.DateLayout)}
}

// Generate builds every day of the trip from scratch.
func Generate(attractions []models.Attraction, p TripParams) []models.DayPlan {
	total := TripDays(p.From, p.To)
	days := make([]models.DayPlan, 0, total)
	for i := range total {
		date := p.From.AddDate(0, 0, i)
		dayAttractions := PartitionForDay(attractions, date, p.From, total)
		days = append(days, models.DayPlan{
			Date:  date.Format(models.DateLayout),
			Items: BuildDay(dayAttractions, i, p.Intensity),
		})
	}
	return days
}

// Planner keeps the working plan for one trip and regenerates it when the
// trip parameters change. It is safe for concurrent use.
type Planner struct {
	source AttractionSource
	log    *zap.Logger

	mu     sync.Mutex
	seq    uint64
	params TripParams
	days   []models.DayPlan
}

func NewPlanner(source AttractionSource, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{source: source, log: log}
}

// Update fetches attractions for params.City and replaces the plan.
// A fetch failure or an empty result clears the plan instead of keeping a partial one.
// When a later Update started before this one finished, the result is dropped
// and ErrSuperseded is returned.
func (p *Planner) Update(ctx context.Context, params TripParams) ([]models.DayPlan, error) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	attractions, err := p.source.Attractions(ctx, params.City)

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.seq {
		p.log.Debug("dropping stale attraction result", zap.String("city", params.City), zap.Uint64("seq", seq))
		return nil, ErrSuperseded
	}
	p.params = params
	if err != nil {
		p.days = nil
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	if len(attractions) == 0 {
		p.days = nil
		return nil, ErrNoAttractions
	}
	p.days = Generate(attractions, params)
	p.log.Debug("itinerary generated",
		zap.String("city", params.City),
		zap.Int("days", len(p.days)),
		zap.Int("attractions", len(attractions)),
		zap.String("intensity", string(params.Intensity)))
	return cloneDays(p.days), nil
}

// Days returns a copy of the current plan.
func (p *Planner) Days() []models.DayPlan {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneDays(p.days)
}

func (p *Planner) Params() TripParams {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

func (p *Planner) Reorder(day, from, to int) error {
	return p.editDay(day, func(items []models.ItineraryItem) ([]models.ItineraryItem, error) {
		return ReorderItems(items, from, to)
	})
}

func (p *Planner) AddCustom(day int, name string) (models.ItineraryItem, error) {
	var added models.ItineraryItem
	err := p.editDay(day, func(items []models.ItineraryItem) ([]models.ItineraryItem, error) {
		var out []models.ItineraryItem
		out, added = AddCustomItem(items, name)
		return out, nil
	})
	return added, err
}

func (p *Planner) Delete(day int, itemID string) error {
	return p.editDay(day, func(items []models.ItineraryItem) ([]models.ItineraryItem, error) {
		return DeleteItem(items, itemID)
	})
}

func (p *Planner) editDay(day int, edit func([]models.ItineraryItem) ([]models.ItineraryItem, error)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if day < 0 || day >= len(p.days) {
		return fmt.Errorf("%w: day %d of %d", ErrOutOfRange, day, len(p.days))
	}
	items, err := edit(p.days[day].Items)
	if err != nil {
		return err
	}
	p.days[day].Items = items
	return nil
}

// Save hands a snapshot of the current plan to sink. A failed save leaves the plan as it was.
func (p *Planner) Save(ctx context.Context, sink Sink, userID, name string) (string, error) {
	p.mu.Lock()
	if p.days == nil {
		p.mu.Unlock()
		return "", ErrEmptyPlan
	}
	req := SaveRequest{
		City:        p.params.City,
		DateRange:   p.params.DateRange(),
		Itinerary:   cloneDays(p.days),
		Name:        name,
		Intensity:   p.params.Intensity,
		TravelStyle: p.params.TravelStyle,
	}
	p.mu.Unlock()

	id, err := sink.SaveItinerary(ctx, userID, req)
	if err != nil {
		p.log.Warn("itinerary save failed", zap.String("city", req.City), zap.Error(err))
		return "", err
	}
	return id, nil
}
