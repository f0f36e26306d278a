package pricing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"wayfarer/models"
	"wayfarer/utils"
)

const maxTravelers = 20

type Handler struct {
	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{validate: validator.New(validator.WithRequiredStructEnabled()), log: log}
}

// GetBudget handles GET /api/pricing/:city/budget?style=&from=&to=&travelers=
func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q := r.URL.Query()
	style, err := models.ParseTravelStyle(q.Get("style"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, to, err := models.DateRange{From: q.Get("from"), To: q.Get("to")}.Parse()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	travelers := 1
	if raw := q.Get("travelers"); raw != "" {
		travelers, err = strconv.Atoi(raw)
		if err != nil || travelers < 1 || travelers > maxTravelers {
			utils.RespondWithError(w, http.StatusBadRequest, "travelers must be between 1 and 20")
			return
		}
	}

	est, err := EstimateBudget(ps.ByName("city"), style, from, to, travelers)
	switch {
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrInvalidTravelers):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Error("budget estimate failed", zap.String("city", ps.ByName("city")), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to estimate budget")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, est)
}

type seasonalRequest struct {
	Offers []Offer `json:"offers" validate:"required,min=1,max=1000,dive"`
}

// PostSeasonal handles POST /api/pricing/seasonal
func (h *Handler) PostSeasonal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req seasonalRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := AverageBySeason(req.Offers)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}
