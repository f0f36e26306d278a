package itinerary

import (
	"fmt"
	"strings"

	"wayfarer/models"
)

// BuildDay lays the day's attractions over the intensity's time slots.
// Slot i takes attraction i mod len, so a short list repeats to fill every slot.
// An empty list yields an empty day.
func BuildDay(dayAttractions []models.Attraction, dayIndex int, intensity models.Intensity) []models.ItineraryItem {
	if len(dayAttractions) == 0 {
		return []models.ItineraryItem{}
	}
	slots := SlotsFor(intensity)
	items := make([]models.ItineraryItem, 0, len(slots))
	for i, slot := range slots {
		a := dayAttractions[i%len(dayAttractions)]
		rating := a.Rating
		items = append(items, models.ItineraryItem{
			ID:              fmt.Sprintf("d%d-s%d-%s", dayIndex, i, a.ID),
			Time:            fmt.Sprintf("%02d:00", slot.StartHour),
			ActivityName:    a.Name,
			Location:        a.Location,
			Rating:          &rating,
			Kind:            models.KindAttraction,
			DurationMinutes: (slot.EndHour - slot.StartHour) * 60,
			Tags:            tagsOf(a),
			Price:           priceIndicator(a.PriceLevel),
			Description:     describe(a),
			AttractionID:    a.ID,
		})
	}
	return items
}

func priceIndicator(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("$", level)
}

func describe(a models.Attraction) string {
	if a.Description != "" {
		return a.Description
	}
	kinds := make([]string, 0, len(a.Types))
	for _, t := range a.Types {
		kinds = append(kinds, humanizeType(t))
	}
	if len(kinds) == 0 {
		return fmt.Sprintf("Rated %.1f/5", a.Rating)
	}
	return fmt.Sprintf("%s rated %.1f/5", strings.Join(kinds, ", "), a.Rating)
}

// humanizeType turns a places tag like "tourist_attraction" into "Tourist attraction".
func humanizeType(t string) string {
	t = strings.ReplaceAll(t, "_", " ")
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

func tagsOf(a models.Attraction) []string {
	tags := make([]string, len(a.Types))
	copy(tags, a.Types)
	return tags
}
