package itinerary

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"wayfarer/models"
	"wayfarer/utils"
)

// MaxTripDays bounds the range a single generate request may cover.
const MaxTripDays = 90

var ErrTripTooLong = fmt.Errorf("trip is longer than %d days", MaxTripDays)

type generateRequest struct {
	City        string           `json:"city" validate:"required"`
	DateRange   models.DateRange `json:"dateRange"`
	Intensity   string           `json:"intensity" validate:"required"`
	TravelStyle string           `json:"travelStyle"`
	Save        bool             `json:"save"`
	Name        string           `json:"name"`
}

type generateResponse struct {
	City        string             `json:"city"`
	DateRange   models.DateRange   `json:"dateRange"`
	Intensity   models.Intensity   `json:"intensity"`
	TravelStyle models.TravelStyle `json:"travelStyle"`
	Days        []models.DayPlan   `json:"days"`
	ItineraryID string             `json:"itineraryid,omitempty"`
}

// POST /api/itineraries/generate
func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req generateRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, err := tripParams(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	planner := NewPlanner(h.source, h.log)
	days, err := planner.Update(r.Context(), params)
	switch {
	case errors.Is(err, ErrNoAttractions):
		utils.RespondWithError(w, http.StatusNotFound, "no attractions found")
		return
	case errors.Is(err, ErrDataUnavailable):
		h.log.Warn("attractions unavailable", zap.String("city", params.City), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Attraction data is unavailable")
		return
	case err != nil:
		h.fail(w, err, "Error generating itinerary")
		return
	}

	resp := generateResponse{
		City:        params.City,
		DateRange:   params.DateRange(),
		Intensity:   params.Intensity,
		TravelStyle: params.TravelStyle,
		Days:        days,
	}
	if req.Save {
		id, err := planner.Save(r.Context(), h.svc, utils.GetUserIDFromRequest(r), req.Name)
		if err != nil {
			h.fail(w, err, "Error saving itinerary")
			return
		}
		resp.ItineraryID = id
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func tripParams(req generateRequest) (TripParams, error) {
	from, to, err := req.DateRange.Parse()
	if err != nil {
		return TripParams{}, err
	}
	if TripDays(from, to) > MaxTripDays {
		return TripParams{}, ErrTripTooLong
	}
	intensity, err := models.ParseIntensity(req.Intensity)
	if err != nil {
		return TripParams{}, err
	}
	style, err := models.ParseTravelStyle(req.TravelStyle)
	if err != nil {
		return TripParams{}, err
	}
	return TripParams{City: req.City, From: from, To: to, Intensity: intensity, TravelStyle: style}, nil
}
