package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"wayfarer/db"
	"wayfarer/models"
	"wayfarer/utils"
)

var ErrForbidden = errors.New("forbidden")

// Store persists saved itineraries.
type Store interface {
	Insert(ctx context.Context, it models.Itinerary) error
	Get(ctx context.Context, id string) (models.Itinerary, error)
	List(ctx context.Context, filter models.ItineraryFilter) ([]models.Itinerary, error)
	Replace(ctx context.Context, it models.Itinerary) error
	SoftDelete(ctx context.Context, id string) error
}

// Notifier announces itinerary changes to live viewers.
type Notifier interface {
	Emit(ctx context.Context, ev models.ItineraryEvent)
}

// SaveRequest is the body accepted by the save endpoint.
type SaveRequest struct {
	City        string             `json:"city" validate:"required"`
	DateRange   models.DateRange   `json:"dateRange"`
	Itinerary   []models.DayPlan   `json:"itinerary" validate:"required"`
	Name        string             `json:"name,omitempty"`
	Intensity   models.Intensity   `json:"intensity,omitempty" validate:"omitempty,oneof=light moderate full"`
	TravelStyle models.TravelStyle `json:"travelStyle,omitempty" validate:"omitempty,oneof=budget standard luxury"`
}

// UpdateRequest replaces the editable fields of a saved itinerary.
type UpdateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	DateRange   models.DateRange `json:"dateRange"`
	Status      string           `json:"status" validate:"omitempty,oneof=Draft Confirmed"`
	Published   bool             `json:"published"`
	Days        []models.DayPlan `json:"days"`
}

// Service owns saved itineraries. Writes are last-write-wins.
type Service struct {
	store  Store
	notify Notifier
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store Store, notify Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, notify: notify, log: log, now: time.Now}
}

func (s *Service) SaveItinerary(ctx context.Context, userID string, req SaveRequest) (string, error) {
	now := s.now().UTC()
	name := req.Name
	if name == "" {
		name = fmt.Sprintf("%s trip", strings.TrimSpace(req.City))
	}
	it := models.Itinerary{
		ItineraryID: utils.GetUUID(),
		UserID:      userID,
		Name:        name,
		City:        req.City,
		DateRange:   req.DateRange,
		Intensity:   req.Intensity,
		TravelStyle: req.TravelStyle,
		Status:      models.StatusDraft,
		Days:        req.Itinerary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	it.NormalizeDays()
	if err := s.store.Insert(ctx, it); err != nil {
		return "", fmt.Errorf("insert itinerary: %w", err)
	}
	s.emit(ctx, models.ActionSaved, it.ItineraryID, userID)
	return it.ItineraryID, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Itinerary, error) {
	it, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Itinerary{}, err
	}
	it.NormalizeDays()
	return it, nil
}

func (s *Service) List(ctx context.Context, filter models.ItineraryFilter) ([]models.Itinerary, error) {
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].NormalizeDays()
	}
	if items == nil {
		items = []models.Itinerary{}
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, req UpdateRequest) (models.Itinerary, error) {
	return s.modify(ctx, userID, id, models.ActionUpdated, func(it *models.Itinerary) error {
		it.Name = req.Name
		it.Description = req.Description
		it.DateRange = req.DateRange
		if req.Status != "" {
			it.Status = req.Status
		}
		it.Published = req.Published
		it.Days = req.Days
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, it.ItineraryID); err != nil {
		return fmt.Errorf("delete itinerary: %w", err)
	}
	s.emit(ctx, models.ActionDeleted, id, userID)
	return nil
}

func (s *Service) Publish(ctx context.Context, userID, id string) (models.Itinerary, error) {
	return s.modify(ctx, userID, id, models.ActionPublished, func(it *models.Itinerary) error {
		it.Published = true
		return nil
	})
}

// Fork copies an itinerary into a new draft owned by userID.
func (s *Service) Fork(ctx context.Context, userID, id string) (models.Itinerary, error) {
	original, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Itinerary{}, err
	}
	now := s.now().UTC()
	originalID := original.ItineraryID
	fork := models.Itinerary{
		ItineraryID: utils.GetUUID(),
		UserID:      userID,
		Name:        "Forked - " + original.Name,
		Description: original.Description,
		City:        original.City,
		DateRange:   original.DateRange,
		Intensity:   original.Intensity,
		TravelStyle: original.TravelStyle,
		Status:      models.StatusDraft,
		ForkedFrom:  &originalID,
		Days:        cloneDays(original.Days),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	fork.NormalizeDays()
	if err := s.store.Insert(ctx, fork); err != nil {
		return models.Itinerary{}, fmt.Errorf("insert fork: %w", err)
	}
	s.emit(ctx, models.ActionSaved, fork.ItineraryID, userID)
	return fork, nil
}

func (s *Service) ReorderDay(ctx context.Context, userID, id string, day, from, to int) (models.Itinerary, error) {
	return s.modifyDay(ctx, userID, id, day, func(items []models.ItineraryItem) ([]models.ItineraryItem, error) {
		return ReorderItems(items, from, to)
	})
}

func (s *Service) AddCustom(ctx context.Context, userID, id string, day int, name string) (models.ItineraryItem, error) {
	var added models.ItineraryItem
	_, err := s.modifyDay(ctx, userID, id, day, func(items []models.ItineraryItem) ([]models.ItineraryItem, error) {
		var out []models.ItineraryItem
		out, added = AddCustomItem(items, name)
		return out, nil
	})
	return added, err
}

func (s *Service) DeleteItem(ctx context.Context, userID, id string, day int, itemID string) (models.Itinerary, error) {
	return s.modifyDay(ctx, userID, id, day, func(items []models.ItineraryItem) ([]models.ItineraryItem, error) {
		return DeleteItem(items, itemID)
	})
}

func (s *Service) modifyDay(ctx context.Context, userID, id string, day int, edit func([]models.ItineraryItem) ([]models.ItineraryItem, error)) (models.Itinerary, error) {
	return s.modify(ctx, userID, id, models.ActionUpdated, func(it *models.Itinerary) error {
		if day < 0 || day >= len(it.Days) {
			return fmt.Errorf("%w: day %d of %d", ErrOutOfRange, day, len(it.Days))
		}
		items, err := edit(it.Days[day].Items)
		if err != nil {
			return err
		}
		it.Days[day].Items = items
		return nil
	})
}

func (s *Service) modify(ctx context.Context, userID, id, action string, change func(*models.Itinerary) error) (models.Itinerary, error) {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return models.Itinerary{}, err
	}
	if err := change(&it); err != nil {
		return models.Itinerary{}, err
	}
	it.UpdatedAt = s.now().UTC()
	it.NormalizeDays()
	if err := s.store.Replace(ctx, it); err != nil {
		return models.Itinerary{}, fmt.Errorf("replace itinerary: %w", err)
	}
	s.emit(ctx, action, id, userID)
	return it, nil
}

// owned loads an itinerary and checks that userID may change it.
// Anonymous itineraries can be changed by anyone.
func (s *Service) owned(ctx context.Context, userID, id string) (models.Itinerary, error) {
	it, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Itinerary{}, err
	}
	if it.UserID != "" && it.UserID != userID {
		return models.Itinerary{}, ErrForbidden
	}
	return it, nil
}

func (s *Service) emit(ctx context.Context, action, id, userID string) {
	if s.notify == nil {
		return
	}
	s.notify.Emit(ctx, models.ItineraryEvent{Action: action, ItineraryID: id, UserID: userID, At: s.now().UTC()})
}

// IsNotFound reports whether err means the itinerary does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}
