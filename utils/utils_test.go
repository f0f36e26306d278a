package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCity(t *testing.T) {
	assert.Equal(t, "new york", NormalizeCity("  New   YORK "))
	assert.Equal(t, "", NormalizeCity(" \t "))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Lisbon","extra":1}`))
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), r, &dst))
	assert.Equal(t, "Lisbon", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &dst), errTrailingData)

	big := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	assert.Error(t, DecodeJSON(httptest.NewRecorder(), r, &dst))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=7&bad=x&neg=-2", nil)
	assert.Equal(t, 7, QueryInt(r, "limit", 10))
	assert.Equal(t, 10, QueryInt(r, "bad", 10))
	assert.Equal(t, 10, QueryInt(r, "neg", 10))
	assert.Equal(t, 10, QueryInt(r, "missing", 10))
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusTeapot, "nope")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}
