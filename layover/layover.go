package layover

import (
	"fmt"
	"math"

	"skylane/models"
)

// BadTimestampError reports a segment whose departure or arrival time is
// missing or unusable. It is a data-quality problem, not a fatal one: the
// caller decides whether to drop the offer or surface the flag.
type BadTimestampError struct {
	SegmentIndex int
	Field        string
}

func (e *BadTimestampError) Error() string {
	return fmt.Sprintf("segment %d has unusable %s timestamp", e.SegmentIndex, e.Field)
}

// Compute derives the connection windows for one direction of travel. The
// result always has exactly len(segments)-1 entries; a single segment is a
// direct flight and yields an empty slice.
func Compute(segments []models.FlightSegment) ([]models.LayoverWindow, error) {
	if len(segments) <= 1 {
		return []models.LayoverWindow{}, nil
	}

	windows := make([]models.LayoverWindow, 0, len(segments)-1)
	for i := 0; i < len(segments)-1; i++ {
		arr := segments[i].Arrival
		dep := segments[i+1].Departure
		if arr.Time.IsZero() {
			return nil, &BadTimestampError{SegmentIndex: i, Field: "arrival"}
		}
		if dep.Time.IsZero() {
			return nil, &BadTimestampError{SegmentIndex: i + 1, Field: "departure"}
		}

		minutes := int(math.Floor(dep.Time.Sub(arr.Time).Minutes()))
		windows = append(windows, models.LayoverWindow{
			Airport:         arr.Airport,
			City:            arr.City,
			DurationMinutes: minutes,
		})
	}
	return windows, nil
}

// Enrich fills offer.Layovers from its segments, both directions in order.
// A timestamp problem in either direction leaves the offer's layovers empty
// and returns the error; the offer itself is still usable.
func Enrich(offer models.ItineraryOffer) (models.ItineraryOffer, error) {
	outbound, err := Compute(offer.Itinerary.Outbound)
	if err != nil {
		offer.Layovers = []models.LayoverWindow{}
		return offer, err
	}
	inbound, err := Compute(offer.Itinerary.Inbound)
	if err != nil {
		offer.Layovers = []models.LayoverWindow{}
		return offer, err
	}
	offer.Layovers = append(outbound, inbound...)
	return offer, nil
}

// Longest returns the longest window's duration, or 0 when there are none.
func Longest(windows []models.LayoverWindow) int {
	longest := 0
	for _, w := range windows {
		if w.DurationMinutes > longest {
			longest = w.DurationMinutes
		}
	}
	return longest
}
