package itinerary

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"wayfarer/utils"
)

// Handler exposes itinerary generation and saved itineraries over HTTP.
type Handler struct {
	svc          *Service
	source       AttractionSource
	validate     *validator.Validate
	log          *zap.Logger
	shareBaseURL string
}

func NewHandler(svc *Service, source AttractionSource, log *zap.Logger, shareBaseURL string) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		svc:          svc,
		source:       source,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		log:          log,
		shareBaseURL: shareBaseURL,
	}
}

// POST /api/itineraries
func (h *Handler) CreateItinerary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req SaveRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.svc.SaveItinerary(r.Context(), utils.GetUserIDFromRequest(r), req)
	if err != nil {
		h.fail(w, err, "Error saving itinerary")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"itineraryid": id})
}

// GET /api/itineraries/all/:id
func (h *Handler) GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, err, "Error fetching itinerary")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it)
}

// PUT /api/itineraries/all/:id
func (h *Handler) UpdateItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req UpdateRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.svc.Update(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), req)
	if err != nil {
		h.fail(w, err, "Error updating itinerary")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it)
}

// DELETE /api/itineraries/all/:id
func (h *Handler) DeleteItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id")); err != nil {
		h.fail(w, err, "Error deleting itinerary")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Itinerary deleted successfully"})
}

// POST /api/itineraries/all/:id/fork
func (h *Handler) ForkItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fork, err := h.svc.Fork(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"))
	if err != nil {
		h.fail(w, err, "Error forking itinerary")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, fork)
}

// PUT /api/itineraries/all/:id/publish
func (h *Handler) PublishItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, err := h.svc.Publish(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"))
	if err != nil {
		h.fail(w, err, "Error publishing itinerary")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it)
}

type reorderRequest struct {
	From *int `json:"from" validate:"required"`
	To   *int `json:"to" validate:"required"`
}

// POST /api/itineraries/all/:id/days/:day/reorder
func (h *Handler) ReorderDay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, ok := dayParam(w, ps)
	if !ok {
		return
	}
	var req reorderRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil || h.validate.Struct(req) != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	it, err := h.svc.ReorderDay(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), day, *req.From, *req.To)
	if err != nil {
		h.fail(w, err, "Error reordering day")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it.Days[day])
}

type customItemRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// POST /api/itineraries/all/:id/days/:day/items
func (h *Handler) AddCustomItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, ok := dayParam(w, ps)
	if !ok {
		return
	}
	var req customItemRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil || h.validate.Struct(req) != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	item, err := h.svc.AddCustom(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), day, req.Name)
	if err != nil {
		h.fail(w, err, "Error adding item")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

// DELETE /api/itineraries/all/:id/days/:day/items/:itemid
func (h *Handler) DeleteDayItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, ok := dayParam(w, ps)
	if !ok {
		return
	}
	it, err := h.svc.DeleteItem(r.Context(), utils.GetUserIDFromRequest(r), ps.ByName("id"), day, ps.ByName("itemid"))
	if err != nil {
		h.fail(w, err, "Error deleting item")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it.Days[day])
}

func dayParam(w http.ResponseWriter, ps httprouter.Params) (int, bool) {
	day, err := strconv.Atoi(ps.ByName("day"))
	if err != nil || day < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid day")
		return 0, false
	}
	return day, true
}

func (h *Handler) fail(w http.ResponseWriter, err error, msg string) {
	switch {
	case IsNotFound(err):
		utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
	case errors.Is(err, ErrItemNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, ErrForbidden):
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrOutOfRange):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error(msg, zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, msg)
	}
}
