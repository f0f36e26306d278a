package autocom

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wayfarer/utils"
)

const citiesKey = "autocomplete:cities"

// Suggestion is one autocomplete hit.
type Suggestion struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Index keeps known destinations in a sorted set so prefixes can be matched lexically.
type Index struct {
	rdb redis.Cmdable
	log *zap.Logger
}

func NewIndex(rdb redis.Cmdable, log *zap.Logger) *Index {
	if log == nil {
		log = zap.NewNop()
	}
	return &Index{rdb: rdb, log: log}
}

// RecordCity adds a city to the index. Every member shares score 0.
func (ix *Index) RecordCity(ctx context.Context, city string) error {
	member := encodeMember(city)
	if member == "" {
		return nil
	}
	if err := ix.rdb.ZAdd(ctx, citiesKey, redis.Z{Score: 0, Member: member}).Err(); err != nil {
		return fmt.Errorf("failed to add city to autocomplete: %w", err)
	}
	return nil
}

// Suggest returns up to limit cities whose normalized name starts with prefix.
func (ix *Index) Suggest(ctx context.Context, prefix string, limit int64) ([]Suggestion, error) {
	p := utils.NormalizeCity(prefix)
	if p == "" {
		return []Suggestion{}, nil
	}
	members, err := ix.rdb.ZRangeByLex(ctx, citiesKey, &redis.ZRangeBy{
		Min:   "[" + p,
		Max:   "[" + p + "\xff",
		Count: limit,
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Suggestion, 0, len(members))
	for _, m := range members {
		if s, ok := decodeMember(m); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Members are stored as "<normalized>|<display name>".
func encodeMember(city string) string {
	key := utils.NormalizeCity(city)
	if key == "" {
		return ""
	}
	return key + "|" + strings.Join(strings.Fields(city), " ")
}

func decodeMember(m string) (Suggestion, bool) {
	key, name, ok := strings.Cut(m, "|")
	if !ok || key == "" {
		return Suggestion{}, false
	}
	return Suggestion{Key: key, Name: name}, true
}

// Suggester is the read side of the index.
type Suggester interface {
	Suggest(ctx context.Context, prefix string, limit int64) ([]Suggestion, error)
}

type Handler struct {
	index Suggester
	log   *zap.Logger
}

func NewHandler(index Suggester, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{index: index, log: log}
}

// SuggestDestinations handles GET /api/destinations/suggest?q=&limit=
func (h *Handler) SuggestDestinations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query().Get("q")
	limit := utils.QueryInt(r, "limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}
	if h.index == nil {
		utils.RespondWithJSON(w, http.StatusOK, []Suggestion{})
		return
	}
	out, err := h.index.Suggest(r.Context(), q, int64(limit))
	if err != nil {
		h.log.Error("autocomplete failed", zap.String("q", q), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load suggestions")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
