package itinerary

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"wayfarer/models"
)

// RenderPDF lays the itinerary out one day per block, with a QR code pointing at shareURL.
func RenderPDF(it models.Itinerary, shareURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(it.Name, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr(it.Name))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s  |  %s to %s", it.City, it.DateRange.From, it.DateRange.To)))
	pdf.Ln(8)

	if shareURL != "" {
		png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode qr: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("share-qr", 165, 10, 30, 30, false, opts, 0, "")
	}
	pdf.Ln(12)

	for i, day := range it.Days {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 9, tr(fmt.Sprintf("Day %d - %s", i+1, day.Date)))
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 11)
		if len(day.Items) == 0 {
			pdf.Cell(0, 7, "Free day")
			pdf.Ln(7)
		}
		for _, item := range day.Items {
			line := fmt.Sprintf("%s  %s (%d min)", item.Time, item.ActivityName, item.DurationMinutes)
			if item.Location != "" {
				line += " - " + item.Location
			}
			if item.Price != "" {
				line += "  " + item.Price
			}
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
			if len(item.Tags) > 0 {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, tr("   "+strings.Join(item.Tags, ", ")), "", "L", false)
				pdf.SetFont("Arial", "", 11)
			}
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *Handler) shareURL(id string) string {
	if h.shareBaseURL == "" {
		return ""
	}
	return strings.TrimRight(h.shareBaseURL, "/") + "/itineraries/" + id
}

// GET /api/itineraries/all/:id/pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, err, "Error fetching itinerary")
		return
	}
	data, err := RenderPDF(it, h.shareURL(it.ItineraryID))
	if err != nil {
		h.fail(w, err, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary-"+it.ItineraryID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
