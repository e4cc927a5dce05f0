package provider

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"skylane/models"
)

// StubProvider fabricates a plausible, deterministic offer list from the
// request alone. It backs local runs and tests when no offer API is
// configured: the same request always yields the same offers.
type StubProvider struct{}

func NewStubProvider() *StubProvider { return &StubProvider{} }

func (p *StubProvider) Name() string { return "stub" }

var stubAirlines = []models.Airline{
	{Code: "SQ", Name: "Singapore Airlines"},
	{Code: "EK", Name: "Emirates"},
	{Code: "TK", Name: "Turkish Airlines"},
	{Code: "QR", Name: "Qatar Airways"},
	{Code: "KL", Name: "KLM"},
	{Code: "LH", Name: "Lufthansa"},
}

var stubHubs = []struct {
	Airport, City, Country string
}{
	{"DXB", "Dubai", "United Arab Emirates"},
	{"IST", "Istanbul", "Turkey"},
	{"SIN", "Singapore", "Singapore"},
	{"DOH", "Doha", "Qatar"},
	{"AMS", "Amsterdam", "Netherlands"},
	{"FRA", "Frankfurt", "Germany"},
}

func (p *StubProvider) Search(_ context.Context, req models.SearchRequest) ([]models.ItineraryOffer, error) {
	if req.Origin == "" || req.Destination == "" || req.DepartureDate == "" {
		return nil, fmt.Errorf("%w: origin, destination and departure date are required", ErrSearchFailed)
	}
	depDate, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad departure date %q", ErrSearchFailed, req.DepartureDate)
	}
	var retDate time.Time
	if req.ReturnDate != "" {
		retDate, err = time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad return date %q", ErrSearchFailed, req.ReturnDate)
		}
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s", req.Origin, req.Destination, req.DepartureDate, req.ReturnDate)
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	count := 12 + rng.Intn(10)
	offers := make([]models.ItineraryOffer, 0, count)
	for i := 0; i < count; i++ {
		airline := stubAirlines[rng.Intn(len(stubAirlines))]
		outbound := p.leg(rng, req.Origin, req.Destination, depDate, airline)

		var inbound []models.FlightSegment
		if !retDate.IsZero() {
			inbound = p.leg(rng, req.Destination, req.Origin, retDate, airline)
		}

		base := 120 + rng.Float64()*900
		taxes := base * 0.22
		offer := models.ItineraryOffer{
			ID:     fmt.Sprintf("stub-%s%s-%d", req.Origin, req.Destination, i),
			Source: p.Name(),
			Price: models.Price{
				Total:    roundCents(base + taxes),
				Base:     roundCents(base),
				Taxes:    roundCents(taxes),
				Currency: "EUR",
			},
			Itinerary: models.Itinerary{Outbound: outbound, Inbound: inbound},
			Airline:   airline,
			Duration: models.TripDuration{
				OutboundMinutes: legMinutes(outbound),
				InboundMinutes:  legMinutes(inbound),
			},
			CanMixMatch: rng.Intn(3) > 0,
		}
		if offer.CanMixMatch && retDate.IsZero() {
			offer.OutboundOnly = true
		}
		if req.MaxPrice > 0 && offer.Price.Total > req.MaxPrice {
			continue
		}
		if req.MaxConnections > 0 && len(outbound)-1 > req.MaxConnections {
			continue
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// leg builds one direction: direct, or one stop through a hub with a
// connection window between 40 minutes and 9 hours.
func (p *StubProvider) leg(rng *rand.Rand, origin, destination string, date time.Time, airline models.Airline) []models.FlightSegment {
	depart := date.Add(time.Duration(5+rng.Intn(16)) * time.Hour).Add(time.Duration(rng.Intn(12)*5) * time.Minute)

	direct := rng.Intn(3) == 0
	if direct {
		minutes := 90 + rng.Intn(600)
		return []models.FlightSegment{
			p.segment(rng, airline, origin, "", destination, "", depart, minutes),
		}
	}

	hub := stubHubs[rng.Intn(len(stubHubs))]
	firstMinutes := 90 + rng.Intn(420)
	layoverMinutes := 40 + rng.Intn(500)
	secondMinutes := 90 + rng.Intn(420)

	first := p.segment(rng, airline, origin, "", hub.Airport, hub.City, depart, firstMinutes)
	secondDepart := first.Arrival.Time.Add(time.Duration(layoverMinutes) * time.Minute)
	second := p.segment(rng, airline, hub.Airport, hub.City, destination, "", secondDepart, secondMinutes)
	return []models.FlightSegment{first, second}
}

func (p *StubProvider) segment(rng *rand.Rand, airline models.Airline, from, fromCity, to, toCity string, depart time.Time, minutes int) models.FlightSegment {
	return models.FlightSegment{
		Departure:       models.FlightPoint{Airport: from, City: fromCity, Time: depart},
		Arrival:         models.FlightPoint{Airport: to, City: toCity, Time: depart.Add(time.Duration(minutes) * time.Minute)},
		Airline:         airline,
		FlightNumber:    fmt.Sprintf("%s%d", airline.Code, 100+rng.Intn(900)),
		Aircraft:        []string{"A350", "B777", "A380", "B787"}[rng.Intn(4)],
		DurationMinutes: minutes,
	}
}

func legMinutes(segments []models.FlightSegment) int {
	total := 0
	for _, s := range segments {
		total += s.DurationMinutes
	}
	return total
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
