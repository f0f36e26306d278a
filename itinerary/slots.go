package itinerary

import "wayfarer/models"

var slotTable = map[models.Intensity][]models.TimeSlot{
	models.IntensityLight: {
		{StartHour: 9, EndHour: 11},
		{StartHour: 13, EndHour: 15},
	},
	models.IntensityModerate: {
		{StartHour: 9, EndHour: 11},
		{StartHour: 12, EndHour: 14},
		{StartHour: 15, EndHour: 17},
	},
	models.IntensityFull: {
		{StartHour: 8, EndHour: 10},
		{StartHour: 11, EndHour: 13},
		{StartHour: 14, EndHour: 16},
		{StartHour: 17, EndHour: 19},
	},
}

// SlotsFor returns the daily time slots for an intensity. Unknown intensities get none.
func SlotsFor(in models.Intensity) []models.TimeSlot {
	slots := slotTable[in]
	out := make([]models.TimeSlot, len(slots))
	copy(out, slots)
	return out
}
