package models

import "time"

// SearchRequest carries everything the offer search provider needs. The
// provider applies the constraints (max price, max connections); we never
// re-filter on them here.
type SearchRequest struct {
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureDate  string  `json:"departureDate"` // YYYY-MM-DD
	ReturnDate     string  `json:"returnDate,omitempty"`
	Adults         int     `json:"adults"`
	Children       int     `json:"children,omitempty"`
	Infants        int     `json:"infants,omitempty"`
	CabinClass     string  `json:"cabinClass,omitempty"`
	MaxPrice       float64 `json:"maxPrice,omitempty"`
	MaxConnections int     `json:"maxConnections,omitempty"`
}

// OneWay reports whether the search asks for a single direction.
func (r SearchRequest) OneWay() bool {
	return r.ReturnDate == ""
}

type SearchMetadata struct {
	TotalResults int   `json:"totalResults"`
	SearchTimeMs int64 `json:"searchTimeMs"`
	CacheHit     bool  `json:"cacheHit"`
	Generation   int64 `json:"generation"`
}

// BookingEvent is published to Redis when a checkout reaches confirmation.
type BookingEvent struct {
	Reference  string    `json:"reference"`
	CheckoutID string    `json:"checkoutId"`
	OfferID    string    `json:"offerId"`
	TotalPrice float64   `json:"totalPrice"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"createdAt"`
}
