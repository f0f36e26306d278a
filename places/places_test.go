package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/models"
)

func TestGetAttractions(t *testing.T) {
	tests := []struct {
		name   string
		source Source
		city   string
		status int
		count  int
	}{
		{"found", &countingSource{out: lisbon}, "Lisbon", http.StatusOK, 2},
		{"empty", &countingSource{}, "Nowhere", http.StatusOK, 0},
		{"upstream failure", &countingSource{err: errors.New("down")}, "Lisbon", http.StatusBadGateway, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			router.GET("/api/attractions/:city", NewHandler(tt.source, nil).GetAttractions)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attractions/"+tt.city, nil))
			require.Equal(t, tt.status, rec.Code)
			if tt.count < 0 {
				return
			}
			var got []models.Attraction
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.NotNil(t, got)
			assert.Len(t, got, tt.count)
		})
	}
}

type fakePhotos struct {
	calls int
	data  []byte
	err   error
}

func (f *fakePhotos) Photo(_ context.Context, _ string, _ int) (io.ReadCloser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func jpegFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func servePhoto(h *PhotoHandler, ref string) *httptest.ResponseRecorder {
	router := httprouter.New()
	router.GET("/api/photos/:ref", h.GetPhoto)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/photos/"+ref, nil))
	return rec
}

func TestGetPhotoResizesAndCaches(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakePhotos{data: jpegFixture(t, 1200, 800)}
	h := NewPhotoHandler(fetcher, dir, nil)

	rec := servePhoto(h, "abc_123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))

	img, _, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, ThumbWidth, img.Bounds().Dx())
	assert.Equal(t, 267, img.Bounds().Dy())

	_, err = os.Stat(filepath.Join(dir, cacheName("abc_123")+".jpg"))
	require.NoError(t, err)

	rec = servePhoto(h, "abc_123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, fetcher.calls)
}

func TestGetPhotoCachesLongReference(t *testing.T) {
	dir := t.TempDir()
	fetcher := &fakePhotos{data: jpegFixture(t, 800, 600)}
	h := NewPhotoHandler(fetcher, dir, nil)
	ref := strings.Repeat("Ab9_", 128)

	require.Equal(t, http.StatusOK, servePhoto(h, ref).Code)
	require.Equal(t, http.StatusOK, servePhoto(h, ref).Code)
	assert.Equal(t, 1, fetcher.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Less(t, len(entries[0].Name()), 100)
}

func TestGetPhotoRejectsBadReference(t *testing.T) {
	fetcher := &fakePhotos{}
	rec := servePhoto(NewPhotoHandler(fetcher, t.TempDir(), nil), "bad.ref")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, fetcher.calls)
}

func TestGetPhotoUpstreamFailure(t *testing.T) {
	rec := servePhoto(NewPhotoHandler(&fakePhotos{err: errors.New("down")}, t.TempDir(), nil), "abc")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = servePhoto(NewPhotoHandler(&fakePhotos{data: []byte("not an image")}, t.TempDir(), nil), "abc")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetPhotoWithoutFetcher(t *testing.T) {
	rec := servePhoto(NewPhotoHandler(nil, t.TempDir(), nil), "abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
