package scoring

import (
	"math"

	"skylane/layover"
	"skylane/models"
)

// Weights of the three score components. They sum to 1.
const (
	priceWeight    = 0.4
	durationWeight = 0.3
	layoverWeight  = 0.3
)

// Layover quality bands, in minutes. Between two and eight hours is long
// enough to leave the airport and short enough not to waste a day.
const (
	sweetSpotMin = 120
	sweetSpotMax = 480
	tooTightMax  = 60
)

const neutralScore = 5

// ScoredOffer pairs an offer with its quality score. DataComplete is false
// when the score fell back to neutral because of missing price or duration.
type ScoredOffer struct {
	Offer        models.ItineraryOffer `json:"offer"`
	Score        int                   `json:"score"`
	DataComplete bool                  `json:"dataComplete"`
}

// Score computes the 1-10 quality score for an offer. It is a pure function
// of the offer: same offer in, same score out, no hidden state. The second
// return value is false when the offer was missing price or duration data
// and the neutral score was used instead.
func Score(offer models.ItineraryOffer) (int, bool) {
	totalMinutes := offer.TotalDurationMinutes()
	if offer.Price.Total <= 0 || totalMinutes <= 0 {
		return neutralScore, false
	}

	priceScore := clamp(10 - offer.Price.Total/200)
	durationScore := clamp(10 - float64(totalMinutes)/120)
	layoverScore := layoverQuality(offer.Layovers)

	final := math.Round(priceWeight*priceScore + durationWeight*durationScore + layoverWeight*layoverScore)
	if final < 1 {
		final = 1
	}
	if final > 10 {
		final = 10
	}
	return int(final), true
}

// ScoreAll scores a batch of offers, preserving order.
func ScoreAll(offers []models.ItineraryOffer) []ScoredOffer {
	scored := make([]ScoredOffer, len(offers))
	for i, offer := range offers {
		s, complete := Score(offer)
		scored[i] = ScoredOffer{Offer: offer, Score: s, DataComplete: complete}
	}
	return scored
}

// layoverQuality rates the longest connection window across both
// directions. No layovers at all (a direct flight) is neutral.
func layoverQuality(windows []models.LayoverWindow) float64 {
	if len(windows) == 0 {
		return neutralScore
	}
	longest := layover.Longest(windows)
	switch {
	case longest >= sweetSpotMin && longest <= sweetSpotMax:
		return 8
	case longest > sweetSpotMax:
		return 6
	case longest < tooTightMax:
		return 4
	default:
		return 5
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
