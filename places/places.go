package places

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"wayfarer/models"
	"wayfarer/utils"
)

// Handler exposes attraction lookups over HTTP.
type Handler struct {
	source Source
	log    *zap.Logger
}

func NewHandler(source Source, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{source: source, log: log}
}

// GetAttractions returns the attractions known for a city.
func (h *Handler) GetAttractions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	city := ps.ByName("city")
	attractions, err := h.source.Attractions(ctx, city)
	if errors.Is(err, ErrEmptyCity) {
		utils.RespondWithError(w, http.StatusBadRequest, "City is required")
		return
	}
	if err != nil {
		h.log.Error("attraction lookup failed", zap.String("city", city), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Attraction data is unavailable")
		return
	}
	if attractions == nil {
		attractions = []models.Attraction{}
	}
	utils.RespondWithJSON(w, http.StatusOK, attractions)
}
