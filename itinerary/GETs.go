package itinerary

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"wayfarer/models"
	"wayfarer/utils"
)

// GET /api/itineraries
func (h *Handler) GetItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	itineraries, err := h.svc.List(r.Context(), models.ItineraryFilter{})
	if err != nil {
		h.fail(w, err, "Error fetching itineraries")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, itineraries)
}

// GET /api/itineraries/search
func (h *Handler) SearchItineraries(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := models.ItineraryFilter{
		StartDate: query.Get("start_date"),
		City:      query.Get("city"),
		Location:  query.Get("location"),
		Status:    query.Get("status"),
	}

	itineraries, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.fail(w, err, "Error fetching itineraries")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, itineraries)
}
