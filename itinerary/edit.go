package itinerary

import (
	"fmt"

	"wayfarer/models"
	"wayfarer/utils"
)

const (
	customItemTime     = "12:00"
	customItemDuration = 60
)

// ReorderItems moves the item at from to position to. The input is not modified.
func ReorderItems(items []models.ItineraryItem, from, to int) ([]models.ItineraryItem, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, fmt.Errorf("%w: move %d -> %d of %d items", ErrOutOfRange, from, to, len(items))
	}
	out := make([]models.ItineraryItem, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i != from {
			out = append(out, it)
		}
	}
	out = append(out[:to], append([]models.ItineraryItem{moved}, out[to:]...)...)
	return out, nil
}

// AddCustomItem appends a user-defined placeholder item at noon.
func AddCustomItem(items []models.ItineraryItem, name string) ([]models.ItineraryItem, models.ItineraryItem) {
	item := models.ItineraryItem{
		ID:              utils.GetUUID(),
		Time:            customItemTime,
		ActivityName:    name,
		Kind:            models.KindCustom,
		DurationMinutes: customItemDuration,
		Tags:            []string{},
	}
	out := make([]models.ItineraryItem, len(items), len(items)+1)
	copy(out, items)
	return append(out, item), item
}

// DeleteItem removes the first item with the given id, keeping the others in order.
func DeleteItem(items []models.ItineraryItem, id string) ([]models.ItineraryItem, error) {
	for i, it := range items {
		if it.ID != id {
			continue
		}
		out := make([]models.ItineraryItem, 0, len(items)-1)
		out = append(out, items[:i]...)
		return append(out, items[i+1:]...), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

func cloneDays(days []models.DayPlan) []models.DayPlan {
	if days == nil {
		return nil
	}
	out := make([]models.DayPlan, len(days))
	for i, d := range days {
		items := make([]models.ItineraryItem, len(d.Items))
		copy(items, d.Items)
		out[i] = models.DayPlan{Date: d.Date, Items: items}
	}
	return out
}
