package models

import "time"

// ItemKind tells where an itinerary item came from.
type ItemKind string

const (
	KindCustom     ItemKind = "custom"
	KindEvent      ItemKind = "event"
	KindAttraction ItemKind = "attraction"
)

// ItineraryItem is one scheduled activity within a day.
type ItineraryItem struct {
	ID              string   `json:"id" bson:"id"`
	Time            string   `json:"time" bson:"time"` // HH:MM
	ActivityName    string   `json:"activityName" bson:"activity_name"`
	Location        string   `json:"location,omitempty" bson:"location,omitempty"`
	Rating          *float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Kind            ItemKind `json:"kind" bson:"kind"`
	DurationMinutes int      `json:"durationMinutes" bson:"duration_minutes"`
	Tags            []string `json:"tags" bson:"tags"`
	Price           string   `json:"price,omitempty" bson:"price,omitempty"`
	Description     string   `json:"description,omitempty" bson:"description,omitempty"`
	AttractionID    string   `json:"attractionId,omitempty" bson:"attraction_id,omitempty"`
}

// DayPlan holds the ordered items for one calendar day of the trip.
type DayPlan struct {
	Date  string          `json:"date" bson:"date"` // YYYY-MM-DD
	Items []ItineraryItem `json:"items" bson:"items"`
}

// Itinerary is a saved snapshot of a generated (and possibly edited) plan.
type Itinerary struct {
	ItineraryID string      `json:"itineraryid" bson:"itineraryid,omitempty"`
	UserID      string      `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Name        string      `json:"name" bson:"name"`
	Description string      `json:"description,omitempty" bson:"description,omitempty"`
	City        string      `json:"city" bson:"city"`
	DateRange   DateRange   `json:"dateRange" bson:"date_range"`
	Intensity   Intensity   `json:"intensity,omitempty" bson:"intensity,omitempty"`
	TravelStyle TravelStyle `json:"travelStyle,omitempty" bson:"travel_style,omitempty"`
	Status      string      `json:"status" bson:"status"` // Draft/Confirmed
	Published   bool        `json:"published" bson:"published"`
	ForkedFrom  *string     `json:"forked_from,omitempty" bson:"forked_from,omitempty"`
	Deleted     bool        `json:"-" bson:"deleted,omitempty"` // Internal use only
	Days        []DayPlan   `json:"days" bson:"days"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

const (
	StatusDraft     = "Draft"
	StatusConfirmed = "Confirmed"
)

// ItineraryFilter narrows a listing of saved itineraries. Empty fields match everything.
type ItineraryFilter struct {
	StartDate string
	City      string
	Location  string
	Status    string
}

// NormalizeDays replaces nil slices so clients always see arrays.
func (it *Itinerary) NormalizeDays() {
	if it.Days == nil {
		it.Days = []DayPlan{}
	}
	for i := range it.Days {
		if it.Days[i].Items == nil {
			it.Days[i].Items = []ItineraryItem{}
		}
	}
}

// Itinerary event actions.
const (
	ActionSaved     = "saved"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionPublished = "published"
)

// ItineraryEvent announces a change to a saved itinerary.
type ItineraryEvent struct {
	Action      string    `json:"action"`
	ItineraryID string    `json:"itineraryId"`
	UserID      string    `json:"userId,omitempty"`
	At          time.Time `json:"at"`
}
