package itinerary

import (
	"sort"
	"time"

	"wayfarer/models"
)

// PartitionForDay returns the attractions scheduled for date.
//
// The attractions open on date are sorted by rating (stable, so ties keep the
// source's relevance order) and cut into totalDays contiguous chunks of
// ceil(open/totalDays); the chunk at the date's offset from tripStart is returned.
// Filtering happens per call, so chunk boundaries can shift between days whose
// closures differ.
func PartitionForDay(attractions []models.Attraction, date, tripStart time.Time, totalDays int) []models.Attraction {
	if totalDays <= 0 {
		return nil
	}
	open := make([]models.Attraction, 0, len(attractions))
	for _, a := range attractions {
		if IsOpen(a, date) {
			open = append(open, a)
		}
	}
	if len(open) == 0 {
		return nil
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].Rating > open[j].Rating
	})

	perDay := (len(open) + totalDays - 1) / totalDays
	dayIndex := DayOffset(tripStart, date)
	if dayIndex < 0 {
		return nil
	}
	start := dayIndex * perDay
	if start >= len(open) {
		return nil
	}
	end := min(start+perDay, len(open))
	return open[start:end]
}

// DayOffset is the number of whole calendar days from start to date.
func DayOffset(start, date time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int((d.Unix() - s.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// TripDays counts the calendar days in an inclusive range; zero when to is before from.
func TripDays(from, to time.Time) int {
	n := DayOffset(from, to) + 1
	if n < 0 {
		return 0
	}
	return n
}
