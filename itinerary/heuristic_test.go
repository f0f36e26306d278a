package itinerary

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/models"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}

func attractions(ratings ...float64) []models.Attraction {
	out := make([]models.Attraction, len(ratings))
	for i, r := range ratings {
		out[i] = models.Attraction{
			ID:     fmt.Sprintf("a%d", i),
			Name:   fmt.Sprintf("Attraction %d", i),
			Rating: r,
			Types:  []string{"museum"},
		}
	}
	return out
}

func ratingsOf(as []models.Attraction) []float64 {
	out := make([]float64, len(as))
	for i, a := range as {
		out[i] = a.Rating
	}
	return out
}

func TestSlotsFor(t *testing.T) {
	assert.Equal(t, []models.TimeSlot{{StartHour: 9, EndHour: 11}, {StartHour: 13, EndHour: 15}}, SlotsFor(models.IntensityLight))
	assert.Len(t, SlotsFor(models.IntensityModerate), 3)
	assert.Equal(t, models.TimeSlot{StartHour: 17, EndHour: 19}, SlotsFor(models.IntensityFull)[3])
	assert.Empty(t, SlotsFor("extreme"))

	slots := SlotsFor(models.IntensityLight)
	slots[0].StartHour = 0
	assert.Equal(t, 9, SlotsFor(models.IntensityLight)[0].StartHour)
}

func TestIsOpen(t *testing.T) {
	monday := date(t, "2026-06-01")
	require.Equal(t, time.Monday, monday.Weekday())

	assert.True(t, IsOpen(models.Attraction{}, monday), "no opening data means open")

	weekendOnly := models.Attraction{OpeningPeriods: []models.OpeningPeriod{
		{Day: time.Saturday, Open: "0900", Close: "1700"},
		{Day: time.Sunday, Open: "1000", Close: "1600"},
	}}
	assert.False(t, IsOpen(weekendOnly, monday))
	assert.True(t, IsOpen(weekendOnly, monday.AddDate(0, 0, 5)))
	assert.True(t, IsOpen(weekendOnly, monday.AddDate(0, 0, 6)))
}

func TestPartitionForDaySortsByRating(t *testing.T) {
	start := date(t, "2026-06-01")
	got := PartitionForDay(attractions(9, 3, 7), start, start, 1)
	assert.Equal(t, []float64{9, 7, 3}, ratingsOf(got))
}

func TestPartitionForDayKeepsInputOrderOnTies(t *testing.T) {
	start := date(t, "2026-06-01")
	in := attractions(4, 5, 4, 4)
	got := PartitionForDay(in, start, start, 1)
	ids := []string{}
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"a1", "a0", "a2", "a3"}, ids)
	assert.Equal(t, "a0", in[0].ID, "input must not be reordered")
}

func TestPartitionForDayCoversEveryAttractionOnce(t *testing.T) {
	start := date(t, "2026-06-01")
	for _, tc := range []struct{ m, n int }{{3, 3}, {7, 3}, {10, 4}, {12, 5}, {5, 2}} {
		t.Run(fmt.Sprintf("m%d_n%d", tc.m, tc.n), func(t *testing.T) {
			ratings := make([]float64, tc.m)
			for i := range ratings {
				ratings[i] = float64(tc.m - i)
			}
			in := attractions(ratings...)

			seen := map[string]int{}
			var union []models.Attraction
			for day := 0; day < tc.n; day++ {
				slice := PartitionForDay(in, start.AddDate(0, 0, day), start, tc.n)
				union = append(union, slice...)
				for _, a := range slice {
					seen[a.ID]++
				}
			}
			assert.Len(t, seen, tc.m)
			for id, n := range seen {
				assert.Equal(t, 1, n, "attraction %s scheduled %d times", id, n)
			}
			// contiguous: concatenating the day slices reproduces the sorted list
			assert.Equal(t, ratings, ratingsOf(union))
		})
	}
}

func TestPartitionForDayDegenerateInput(t *testing.T) {
	start := date(t, "2026-06-01")
	assert.Empty(t, PartitionForDay(attractions(5, 4), start, start, 0))
	assert.Empty(t, PartitionForDay(nil, start, start, 3))
	assert.Empty(t, PartitionForDay(attractions(5, 4), start.AddDate(0, 0, -1), start, 3))
	// two attractions over three days: the third day gets nothing
	assert.Empty(t, PartitionForDay(attractions(5, 4), start.AddDate(0, 0, 2), start, 3))
}

func TestPartitionForDayFiltersClosedAttractions(t *testing.T) {
	start := date(t, "2026-06-01") // Monday
	in := attractions(5, 4, 3)
	in[0].OpeningPeriods = []models.OpeningPeriod{{Day: time.Tuesday, Open: "0900"}}

	got := PartitionForDay(in, start, start, 1)
	assert.Equal(t, []float64{4, 3}, ratingsOf(got))
}

func TestBuildDayFillsEverySlot(t *testing.T) {
	for _, tc := range []struct {
		intensity models.Intensity
		want      int
	}{
		{models.IntensityLight, 2},
		{models.IntensityModerate, 3},
		{models.IntensityFull, 4},
	} {
		for _, n := range []int{1, 2, 5} {
			items := BuildDay(attractions(make([]float64, n)...), 0, tc.intensity)
			assert.Len(t, items, tc.want, "%s with %d attractions", tc.intensity, n)
		}
	}
}

func TestBuildDayWrapsShortLists(t *testing.T) {
	items := BuildDay(attractions(4.5), 2, models.IntensityModerate)
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, "a0", it.AttractionID)
		assert.Equal(t, fmt.Sprintf("d2-s%d-a0", i), it.ID)
	}
}

func TestBuildDayEmpty(t *testing.T) {
	items := BuildDay(nil, 0, models.IntensityFull)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBuildDayItemFields(t *testing.T) {
	as := []models.Attraction{
		{ID: "louvre", Name: "Louvre", Location: "Rue de Rivoli", Rating: 4.7, PriceLevel: 2, Types: []string{"museum", "tourist_attraction"}},
		{ID: "park", Name: "Park", Rating: 4.1, Description: "Big green space"},
	}
	items := BuildDay(as, 0, models.IntensityFull)
	require.Len(t, items, 4)

	first := items[0]
	assert.Equal(t, "08:00", first.Time)
	assert.Equal(t, 120, first.DurationMinutes)
	assert.Equal(t, models.KindAttraction, first.Kind)
	assert.Equal(t, "$$", first.Price)
	assert.Equal(t, "Museum, Tourist attraction rated 4.7/5", first.Description)
	assert.Equal(t, []string{"museum", "tourist_attraction"}, first.Tags)
	require.NotNil(t, first.Rating)
	assert.InDelta(t, 4.7, *first.Rating, 1e-9)

	second := items[1]
	assert.Equal(t, "11:00", second.Time)
	assert.Equal(t, "", second.Price)
	assert.Equal(t, "Big green space", second.Description)

	assert.Equal(t, "17:00", items[3].Time)
	assert.Equal(t, "park", items[3].AttractionID)
}

func TestTripDays(t *testing.T) {
	assert.Equal(t, 1, TripDays(date(t, "2026-06-01"), date(t, "2026-06-01")))
	assert.Equal(t, 5, TripDays(date(t, "2026-06-01"), date(t, "2026-06-05")))
	assert.Equal(t, 0, TripDays(date(t, "2026-06-05"), date(t, "2026-06-01")))
	// dates carrying a non-UTC offset still count calendar days
	loc := time.FixedZone("UTC+2", 2*60*60)
	from := time.Date(2026, 3, 28, 23, 30, 0, 0, loc)
	to := time.Date(2026, 3, 30, 0, 15, 0, 0, loc)
	assert.Equal(t, 3, TripDays(from, to))
}

func TestTripDaysLongRange(t *testing.T) {
	assert.Equal(t, 3652059, TripDays(date(t, "0001-01-01"), date(t, "9999-12-31")))
	assert.Equal(t, 73049, TripDays(date(t, "2000-01-01"), date(t, "2199-12-31")))
	assert.Equal(t, 73048, DayOffset(date(t, "2000-01-01"), date(t, "2199-12-31")))
}
