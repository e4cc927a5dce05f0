package models

import "time"

type Airline struct {
	Code string `json:"code" bson:"code"`
	Name string `json:"name" bson:"name"`
}

// FlightPoint is one end of a segment (departure or arrival).
type FlightPoint struct {
	Airport  string    `json:"airport" bson:"airport"`
	City     string    `json:"city" bson:"city"`
	Country  string    `json:"country" bson:"country"`
	Time     time.Time `json:"time" bson:"time"`
	Timezone string    `json:"timezone,omitempty" bson:"timezone,omitempty"`
}

// FlightSegment is a single non-stop hop. Segments arrive from the offer
// source and are never modified after that.
type FlightSegment struct {
	Departure       FlightPoint `json:"departure" bson:"departure"`
	Arrival         FlightPoint `json:"arrival" bson:"arrival"`
	Airline         Airline     `json:"airline" bson:"airline"`
	FlightNumber    string      `json:"flightNumber" bson:"flightNumber"`
	Aircraft        string      `json:"aircraft,omitempty" bson:"aircraft,omitempty"`
	DurationMinutes int         `json:"durationMinutes" bson:"durationMinutes"`
}

// LayoverWindow is the gap between two consecutive segments of the same
// direction. Always derived, never stored on its own.
type LayoverWindow struct {
	Airport         string `json:"airport" bson:"airport"`
	City            string `json:"city" bson:"city"`
	DurationMinutes int    `json:"durationMinutes" bson:"durationMinutes"`
}

type Price struct {
	Total    float64 `json:"total" bson:"total"`
	Base     float64 `json:"base" bson:"base"`
	Taxes    float64 `json:"taxes" bson:"taxes"`
	Currency string  `json:"currency" bson:"currency"`
}

type Itinerary struct {
	Outbound []FlightSegment `json:"outbound" bson:"outbound"`
	Inbound  []FlightSegment `json:"inbound,omitempty" bson:"inbound,omitempty"`
}

type TripDuration struct {
	OutboundMinutes int `json:"outboundMinutes" bson:"outboundMinutes"`
	InboundMinutes  int `json:"inboundMinutes,omitempty" bson:"inboundMinutes,omitempty"`
}

// ItineraryOffer is one priced travel option as returned by the offer
// search provider, plus the layovers derived from its segments.
type ItineraryOffer struct {
	ID        string          `json:"id" bson:"id"`
	Source    string          `json:"source" bson:"source"`
	Price     Price           `json:"price" bson:"price"`
	Itinerary Itinerary       `json:"itinerary" bson:"itinerary"`
	Layovers  []LayoverWindow `json:"layovers" bson:"layovers"`
	Airline   Airline         `json:"airline" bson:"airline"`
	Duration  TripDuration    `json:"duration" bson:"duration"`

	// Mix-and-match eligibility flags, set by the provider.
	CanMixMatch  bool `json:"canMixMatch,omitempty" bson:"canMixMatch,omitempty"`
	OutboundOnly bool `json:"outboundOnly,omitempty" bson:"outboundOnly,omitempty"`
	InboundOnly  bool `json:"inboundOnly,omitempty" bson:"inboundOnly,omitempty"`
}

// RoundTrip reports whether the offer carries a return leg.
func (o ItineraryOffer) RoundTrip() bool {
	return len(o.Itinerary.Inbound) > 0
}

// TotalDurationMinutes sums segment durations over both directions.
func (o ItineraryOffer) TotalDurationMinutes() int {
	total := 0
	for _, s := range o.Itinerary.Outbound {
		total += s.DurationMinutes
	}
	for _, s := range o.Itinerary.Inbound {
		total += s.DurationMinutes
	}
	return total
}
