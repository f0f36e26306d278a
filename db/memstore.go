package db

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"wayfarer/models"
)

// MemStorage is a map-backed itinerary store for development and tests.
// Nothing survives a restart.
type MemStorage struct {
	mu    sync.RWMutex
	items map[string]models.Itinerary
}

func NewMemStorage() *MemStorage {
	return &MemStorage{items: make(map[string]models.Itinerary)}
}

func (m *MemStorage) Insert(_ context.Context, it models.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[it.ItineraryID]; exists {
		return fmt.Errorf("itinerary %s already exists", it.ItineraryID)
	}
	m.items[it.ItineraryID] = deepCopy(it)
	return nil
}

func (m *MemStorage) Get(_ context.Context, id string) (models.Itinerary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok || it.Deleted {
		return models.Itinerary{}, fmt.Errorf("itinerary %s: %w", id, ErrNotFound)
	}
	return deepCopy(it), nil
}

func (m *MemStorage) List(_ context.Context, f models.ItineraryFilter) ([]models.Itinerary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Itinerary{}
	for _, it := range m.items {
		if it.Deleted || !matches(it, f) {
			continue
		}
		out = append(out, deepCopy(it))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *MemStorage) Replace(_ context.Context, it models.Itinerary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[it.ItineraryID]; !ok {
		return fmt.Errorf("itinerary %s: %w", it.ItineraryID, ErrNotFound)
	}
	m.items[it.ItineraryID] = deepCopy(it)
	return nil
}

func (m *MemStorage) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return fmt.Errorf("itinerary %s: %w", id, ErrNotFound)
	}
	it.Deleted = true
	m.items[id] = it
	return nil
}

func matches(it models.Itinerary, f models.ItineraryFilter) bool {
	if f.StartDate != "" && it.DateRange.From != f.StartDate {
		return false
	}
	if f.City != "" && it.City != f.City {
		return false
	}
	if f.Status != "" && it.Status != f.Status {
		return false
	}
	if f.Location != "" {
		for _, d := range it.Days {
			if slices.ContainsFunc(d.Items, func(i models.ItineraryItem) bool { return i.Location == f.Location }) {
				return true
			}
		}
		return false
	}
	return true
}

func deepCopy(it models.Itinerary) models.Itinerary {
	if it.Days != nil {
		days := make([]models.DayPlan, len(it.Days))
		for i, d := range it.Days {
			days[i] = models.DayPlan{Date: d.Date, Items: slices.Clone(d.Items)}
		}
		it.Days = days
	}
	if it.ForkedFrom != nil {
		from := *it.ForkedFrom
		it.ForkedFrom = &from
	}
	return it
}
