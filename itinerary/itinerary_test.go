package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/db"
	"wayfarer/globals"
	"wayfarer/models"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.ItineraryEvent
}

func (n *recordingNotifier) Emit(_ context.Context, ev models.ItineraryEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, ev := range n.events {
		out[i] = ev.Action
	}
	return out
}

type testEnv struct {
	router *httprouter.Router
	store  *db.MemStorage
	notify *recordingNotifier
	source *fakeSource
}

// asUser reads the caller from X-User so tests can act as different owners.
func asUser(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if u := r.Header.Get("X-User"); u != "" {
			r = r.WithContext(context.WithValue(r.Context(), globals.UserIDKey, u))
		}
		next(w, r, ps)
	}
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  db.NewMemStorage(),
		notify: &recordingNotifier{},
		source: &fakeSource{attractions: attractions(5, 4, 3, 2, 1, 0.5)},
	}
	h := NewHandler(NewService(env.store, env.notify, nil), env.source, nil, "https://trips.example.com/")

	r := httprouter.New()
	r.POST("/api/itineraries/generate", asUser(h.GenerateItinerary))
	r.GET("/api/itineraries", h.GetItineraries)
	r.POST("/api/itineraries", asUser(h.CreateItinerary))
	r.GET("/api/itineraries/search", h.SearchItineraries)
	r.GET("/api/itineraries/all/:id", h.GetItinerary)
	r.PUT("/api/itineraries/all/:id", asUser(h.UpdateItinerary))
	r.DELETE("/api/itineraries/all/:id", asUser(h.DeleteItinerary))
	r.POST("/api/itineraries/all/:id/fork", asUser(h.ForkItinerary))
	r.PUT("/api/itineraries/all/:id/publish", asUser(h.PublishItinerary))
	r.GET("/api/itineraries/all/:id/pdf", h.ExportPDF)
	r.POST("/api/itineraries/all/:id/days/:day/reorder", asUser(h.ReorderDay))
	r.POST("/api/itineraries/all/:id/days/:day/items", asUser(h.AddCustomItem))
	r.DELETE("/api/itineraries/all/:id/days/:day/items/:itemid", asUser(h.DeleteDayItem))
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const generateBody = `{"city":"Lisbon","dateRange":{"from":"2025-06-02","to":"2025-06-04"},"intensity":"moderate"}`

func TestGenerateItinerary(t *testing.T) {
	env := newEnv(t)
	rec := env.do(t, http.MethodPost, "/api/itineraries/generate", "", generateBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[generateResponse](t, rec)
	assert.Equal(t, "Lisbon", resp.City)
	assert.Equal(t, models.StyleStandard, resp.TravelStyle)
	assert.Empty(t, resp.ItineraryID)
	require.Len(t, resp.Days, 3)
	for _, d := range resp.Days {
		assert.Len(t, d.Items, len(SlotsFor(models.IntensityModerate)))
	}
	assert.Equal(t, "09:00", resp.Days[0].Items[0].Time)
	assert.Equal(t, []string{"Lisbon"}, env.source.calls)

	list, err := env.store.List(context.Background(), models.ItineraryFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGenerateItineraryAndSave(t *testing.T) {
	env := newEnv(t)
	body := `{"city":"Lisbon","dateRange":{"from":"2025-06-02","to":"2025-06-03"},"intensity":"light","travelStyle":"luxury","save":true,"name":"Summer"}`
	rec := env.do(t, http.MethodPost, "/api/itineraries/generate", "u1", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[generateResponse](t, rec)
	require.NotEmpty(t, resp.ItineraryID)

	saved, err := env.store.Get(context.Background(), resp.ItineraryID)
	require.NoError(t, err)
	assert.Equal(t, "Summer", saved.Name)
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, models.StyleLuxury, saved.TravelStyle)
	assert.Equal(t, models.StatusDraft, saved.Status)
	assert.Equal(t, resp.Days, saved.Days)
	assert.Equal(t, []string{models.ActionSaved}, env.notify.actions())

	rec = env.do(t, http.MethodGet, "/api/itineraries/all/"+resp.ItineraryID, "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reloaded := decode[models.Itinerary](t, rec)
	assert.Equal(t, resp.Days, reloaded.Days)
	assert.Equal(t, resp.DateRange, reloaded.DateRange)
	assert.Equal(t, models.IntensityLight, reloaded.Intensity)
}

func TestGenerateItineraryErrors(t *testing.T) {
	tests := []struct {
		name   string
		source *fakeSource
		body   string
		status int
		msg    string
	}{
		{"no attractions", &fakeSource{}, generateBody, http.StatusNotFound, "no attractions found"},
		{"source down", &fakeSource{err: errors.New("timeout")}, generateBody, http.StatusBadGateway, "Attraction data is unavailable"},
		{"bad intensity", nil, `{"city":"Lisbon","dateRange":{"from":"2025-06-02","to":"2025-06-04"},"intensity":"extreme"}`, http.StatusBadRequest, ""},
		{"missing city", nil, `{"dateRange":{"from":"2025-06-02","to":"2025-06-04"},"intensity":"light"}`, http.StatusBadRequest, ""},
		{"bad date", nil, `{"city":"Lisbon","dateRange":{"from":"June 2","to":"2025-06-04"},"intensity":"light"}`, http.StatusBadRequest, ""},
		{"not json", nil, `{`, http.StatusBadRequest, ""},
		{"trip too long", nil, `{"city":"Lisbon","dateRange":{"from":"2025-06-01","to":"2025-08-30"},"intensity":"light"}`, http.StatusBadRequest, ErrTripTooLong.Error()},
		{"centuries long", nil, `{"city":"Lisbon","dateRange":{"from":"2000-01-01","to":"2199-12-31"},"intensity":"full","save":true}`, http.StatusBadRequest, ErrTripTooLong.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			if tt.source != nil {
				*env.source = *tt.source
			}
			rec := env.do(t, http.MethodPost, "/api/itineraries/generate", "", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.msg != "" {
				assert.Equal(t, tt.msg, decode[map[string]string](t, rec)["error"])
			}
		})
	}
}

func TestGenerateItineraryLongestTrip(t *testing.T) {
	env := newEnv(t)
	body := `{"city":"Lisbon","dateRange":{"from":"2025-06-01","to":"2025-08-29"},"intensity":"light"}`
	rec := env.do(t, http.MethodPost, "/api/itineraries/generate", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[generateResponse](t, rec)
	require.Len(t, resp.Days, MaxTripDays)
	assert.Equal(t, "2025-08-29", resp.Days[MaxTripDays-1].Date)
}

func saveBody(t *testing.T, city string) string {
	t.Helper()
	req := SaveRequest{
		City:      city,
		DateRange: models.DateRange{From: "2025-06-02", To: "2025-06-03"},
		Itinerary: Generate(attractions(5, 4, 3, 2), params(t, "2025-06-02", "2025-06-03", models.IntensityLight)),
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	return string(raw)
}

func create(t *testing.T, env *testEnv, user, city string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/itineraries", user, saveBody(t, city))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[map[string]string](t, rec)["itineraryid"]
	require.NotEmpty(t, id)
	return id
}

func TestSavedItineraryLifecycle(t *testing.T) {
	env := newEnv(t)
	id := create(t, env, "u1", "Lisbon")
	create(t, env, "u2", "Porto")

	rec := env.do(t, http.MethodGet, "/api/itineraries/all/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Itinerary](t, rec)
	assert.Equal(t, "Lisbon trip", got.Name)
	assert.Len(t, got.Days, 2)

	rec = env.do(t, http.MethodGet, "/api/itineraries", "", "")
	assert.Len(t, decode[[]models.Itinerary](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/itineraries/search?city=Porto", "", "")
	found := decode[[]models.Itinerary](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Porto", found[0].City)

	update := `{"name":"Lisbon long weekend","description":"food","dateRange":{"from":"2025-06-02","to":"2025-06-03"},"status":"Confirmed","days":[]}`
	rec = env.do(t, http.MethodPut, "/api/itineraries/all/"+id, "u1", update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode[models.Itinerary](t, rec)
	assert.Equal(t, "Lisbon long weekend", got.Name)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.NotNil(t, got.Days)

	rec = env.do(t, http.MethodPut, "/api/itineraries/all/"+id+"/publish", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Itinerary](t, rec).Published)

	rec = env.do(t, http.MethodPost, "/api/itineraries/all/"+id+"/fork", "u3", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	fork := decode[models.Itinerary](t, rec)
	assert.NotEqual(t, id, fork.ItineraryID)
	assert.Equal(t, "Forked - Lisbon long weekend", fork.Name)
	assert.Equal(t, "u3", fork.UserID)
	assert.Equal(t, models.StatusDraft, fork.Status)
	assert.False(t, fork.Published)
	require.NotNil(t, fork.ForkedFrom)
	assert.Equal(t, id, *fork.ForkedFrom)

	rec = env.do(t, http.MethodDelete, "/api/itineraries/all/"+id, "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/itineraries/all/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/itineraries", "", "")
	assert.Len(t, decode[[]models.Itinerary](t, rec), 2)

	assert.Equal(t, []string{
		models.ActionSaved, models.ActionSaved,
		models.ActionUpdated, models.ActionPublished,
		models.ActionSaved, models.ActionDeleted,
	}, env.notify.actions())
}

func TestOwnership(t *testing.T) {
	env := newEnv(t)
	owned := create(t, env, "u1", "Lisbon")
	anonymous := create(t, env, "", "Porto")

	update := `{"name":"mine now","dateRange":{"from":"2025-06-02","to":"2025-06-03"}}`
	rec := env.do(t, http.MethodPut, "/api/itineraries/all/"+owned, "u2", update)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/itineraries/all/"+owned, "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/itineraries/all/"+anonymous, "u2", update)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMissingItinerary(t *testing.T) {
	env := newEnv(t)
	for _, c := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/itineraries/all/nope", ""},
		{http.MethodPut, "/api/itineraries/all/nope", `{"dateRange":{"from":"2025-06-02","to":"2025-06-03"}}`},
		{http.MethodDelete, "/api/itineraries/all/nope", ""},
		{http.MethodPost, "/api/itineraries/all/nope/fork", ""},
		{http.MethodGet, "/api/itineraries/all/nope/pdf", ""},
		{http.MethodPost, "/api/itineraries/all/nope/days/0/items", `{"name":"Lunch"}`},
	} {
		rec := env.do(t, c.method, c.path, "", c.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, c.method+" "+c.path)
	}
}

func TestDayEdits(t *testing.T) {
	env := newEnv(t)
	id := create(t, env, "u1", "Lisbon")
	base := "/api/itineraries/all/" + id + "/days/"

	before, err := env.store.Get(context.Background(), id)
	require.NoError(t, err)
	original := itemIDs(before.Days[1].Items)
	require.Len(t, original, 2)

	rec := env.do(t, http.MethodPost, base+"1/reorder", "u1", `{"from":0,"to":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	day := decode[models.DayPlan](t, rec)
	assert.Equal(t, []string{original[1], original[0]}, itemIDs(day.Items))

	rec = env.do(t, http.MethodPost, base+"1/items", "u1", `{"name":"Pastéis de Belém"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	added := decode[models.ItineraryItem](t, rec)
	assert.Equal(t, "Pastéis de Belém", added.ActivityName)
	assert.Equal(t, "12:00", added.Time)
	assert.Equal(t, 60, added.DurationMinutes)
	assert.Equal(t, models.KindCustom, added.Kind)

	rec = env.do(t, http.MethodDelete, base+"1/items/"+original[0], "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	day = decode[models.DayPlan](t, rec)
	assert.Equal(t, []string{original[1], added.ID}, itemIDs(day.Items))

	after, err := env.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, day.Items, after.Days[1].Items)
	assert.Equal(t, itemIDs(before.Days[0].Items), itemIDs(after.Days[0].Items))
}

func TestDayEditErrors(t *testing.T) {
	env := newEnv(t)
	id := create(t, env, "u1", "Lisbon")
	base := "/api/itineraries/all/" + id + "/days/"

	tests := []struct {
		name, method, path, body string
		status                   int
	}{
		{"day out of range", http.MethodPost, base + "5/reorder", `{"from":0,"to":1}`, http.StatusBadRequest},
		{"index out of range", http.MethodPost, base + "0/reorder", `{"from":0,"to":9}`, http.StatusBadRequest},
		{"missing indexes", http.MethodPost, base + "0/reorder", `{}`, http.StatusBadRequest},
		{"bad day", http.MethodPost, base + "x/items", `{"name":"Lunch"}`, http.StatusBadRequest},
		{"empty name", http.MethodPost, base + "0/items", `{"name":""}`, http.StatusBadRequest},
		{"unknown item", http.MethodDelete, base + "0/items/nope", "", http.StatusNotFound},
		{"not owner", http.MethodPost, base + "0/items", `{"name":"Lunch"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := "u1"
			if tt.name == "not owner" {
				user = "u2"
			}
			rec := env.do(t, tt.method, tt.path, user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	after, err := env.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, after.Days[0].Items, 2)
}

func TestExportPDF(t *testing.T) {
	env := newEnv(t)
	id := create(t, env, "", "Lisbon")

	rec := env.do(t, http.MethodGet, "/api/itineraries/all/"+id+"/pdf", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestRenderPDFEmptyDays(t *testing.T) {
	data, err := RenderPDF(models.Itinerary{
		ItineraryID: "x",
		Name:        "Empty",
		City:        "Lisbon",
		Days:        []models.DayPlan{{Date: "2025-06-02"}},
	}, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
