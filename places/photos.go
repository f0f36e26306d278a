package places

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"wayfarer/utils"
)

const (
	ThumbWidth  = 400
	sourceWidth = 1600
)

var photoRefPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,512}$`)

// PhotoFetcher downloads the original image behind a photo reference.
type PhotoFetcher interface {
	Photo(ctx context.Context, ref string, maxWidth int) (io.ReadCloser, error)
}

// PhotoHandler serves resized attraction photos and keeps them on disk.
type PhotoHandler struct {
	fetcher PhotoFetcher
	dir     string
	width   int
	log     *zap.Logger
}

func NewPhotoHandler(fetcher PhotoFetcher, dir string, log *zap.Logger) *PhotoHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PhotoHandler{fetcher: fetcher, dir: dir, width: ThumbWidth, log: log}
}

func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ref := ps.ByName("ref")
	if !photoRefPattern.MatchString(ref) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid photo reference")
		return
	}
	name := cacheName(ref)
	path := filepath.Join(h.dir, name+".jpg")
	if _, err := os.Stat(path); err == nil {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		http.ServeFile(w, r, path)
		return
	}
	if h.fetcher == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Photo not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	body, err := h.fetcher.Photo(ctx, ref, sourceWidth)
	if err != nil {
		h.log.Warn("photo fetch failed", zap.String("ref", ref), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Photo is unavailable")
		return
	}
	defer body.Close()

	img, err := imaging.Decode(body, imaging.AutoOrientation(true))
	if err != nil {
		h.log.Warn("photo decode failed", zap.String("ref", ref), zap.Error(err))
		utils.RespondWithError(w, http.StatusBadGateway, "Photo is unavailable")
		return
	}
	thumb := imaging.Resize(img, h.width, 0, imaging.Lanczos)

	if err := h.store(name, path, thumb); err != nil {
		h.log.Warn("photo cache write failed", zap.String("ref", ref), zap.Error(err))
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := imaging.Encode(w, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		h.log.Warn("photo encode failed", zap.String("ref", ref), zap.Error(err))
	}
}

// cacheName keeps file names short for any accepted ref length.
func cacheName(ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return hex.EncodeToString(sum[:])
}

// store writes through a temp file so concurrent readers never see a partial image.
func (h *PhotoHandler) store(name, path string, img image.Image) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(h.dir, name+"-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
