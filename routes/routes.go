package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"wayfarer/autocom"
	"wayfarer/hub"
	"wayfarer/itinerary"
	"wayfarer/middleware"
	"wayfarer/places"
	"wayfarer/pricing"
	"wayfarer/ratelim"
)

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddHealthRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
}

func AddAttractionRoutes(router *httprouter.Router, h *places.Handler, photos *places.PhotoHandler, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/attractions/:city", rateLimiter.Limit(h.GetAttractions))
	router.GET("/api/photos/:ref", rateLimiter.Limit(photos.GetPhoto))
}

func AddDestinationRoutes(router *httprouter.Router, h *autocom.Handler) {
	router.GET("/api/destinations/suggest", h.SuggestDestinations)
}

func AddItineraryRoutes(router *httprouter.Router, h *itinerary.Handler, auth *middleware.Auth, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/itineraries/generate", rateLimiter.Limit(auth.OptionalAuth(h.GenerateItinerary))) //Generate a plan, optionally saving it
	router.GET("/api/itineraries", h.GetItineraries)                                                    //Fetch all itineraries
	router.POST("/api/itineraries", auth.OptionalAuth(h.CreateItinerary))                               //Save an itinerary
	router.GET("/api/itineraries/search", h.SearchItineraries)                                          //Search itineraries
	router.GET("/api/itineraries/all/:id", h.GetItinerary)                                              //Fetch a single itinerary
	router.PUT("/api/itineraries/all/:id", auth.OptionalAuth(h.UpdateItinerary))                        //Update an itinerary
	router.DELETE("/api/itineraries/all/:id", auth.OptionalAuth(h.DeleteItinerary))                     //Delete an itinerary
	router.POST("/api/itineraries/all/:id/fork", auth.OptionalAuth(h.ForkItinerary))                    //Fork a new itinerary
	router.PUT("/api/itineraries/all/:id/publish", auth.Authenticate(h.PublishItinerary))               //Publish an itinerary
	router.GET("/api/itineraries/all/:id/pdf", rateLimiter.Limit(h.ExportPDF))                          //Export as PDF

	router.POST("/api/itineraries/all/:id/days/:day/reorder", auth.OptionalAuth(h.ReorderDay))
	router.POST("/api/itineraries/all/:id/days/:day/items", auth.OptionalAuth(h.AddCustomItem))
	router.DELETE("/api/itineraries/all/:id/days/:day/items/:itemid", auth.OptionalAuth(h.DeleteDayItem))
}

func AddLiveRoutes(router *httprouter.Router, hb *hub.Hub, allowedOrigins []string) {
	router.GET("/api/live/:id", hub.WebSocketHandler(hb, allowedOrigins))
}

func AddPricingRoutes(router *httprouter.Router, h *pricing.Handler) {
	router.GET("/api/pricing/:city/budget", h.GetBudget)
	router.POST("/api/pricing/seasonal", h.PostSeasonal)
}
