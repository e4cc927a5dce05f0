package routes

import (
	"skylane/checkout"
	"skylane/cityguide"
	"skylane/confirmation"
	"skylane/flights"
	"skylane/middleware"
	"skylane/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddFlightRoutes wires search, results, and the mix-and-match surface.
// Search is the only rate-limited endpoint; it is the expensive one.
func AddFlightRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	h := flights.NewDefaultHandlers()

	router.POST("/api/flights/search", rl.Limit(h.HandleSearch))
	router.GET("/api/flights/results/:sessionid", h.HandleResults)

	router.POST("/api/mixmatch/:sessionid/toggle", h.HandleToggleMixMatch)
	router.POST("/api/mixmatch/:sessionid/outbound", h.HandleSelectOutbound)
	router.POST("/api/mixmatch/:sessionid/inbound", h.HandleSelectInbound)
	router.POST("/api/mixmatch/:sessionid/combine", h.HandleCombine)
}

// AddCheckoutRoutes wires the booking state machine. Every step endpoint
// requires the checkout session token issued at start. Start lives on the
// collection path; httprouter cannot mix a static segment with the
// :checkoutid wildcard under /api/checkout/.
func AddCheckoutRoutes(router *httprouter.Router) {
	router.POST("/api/checkout", checkout.HandleStart)
	router.GET("/api/checkout/:checkoutid", middleware.Authenticate(checkout.HandleGet))
	router.POST("/api/checkout/:checkoutid/passengers", middleware.Authenticate(checkout.HandlePassengers))
	router.POST("/api/checkout/:checkoutid/extras", middleware.Authenticate(checkout.HandleExtras))
	router.POST("/api/checkout/:checkoutid/payment", middleware.Authenticate(checkout.HandlePayment))
	router.POST("/api/checkout/:checkoutid/advance", middleware.Authenticate(checkout.HandleAdvance))
	router.POST("/api/checkout/:checkoutid/retreat", middleware.Authenticate(checkout.HandleRetreat))
}

func AddCityGuideRoutes(router *httprouter.Router) {
	router.GET("/api/cityguide/:code", cityguide.GetGuide)
}

func AddBookingRoutes(router *httprouter.Router) {
	router.GET("/api/bookings/:reference/pdf", confirmation.PrintOrder)
}
