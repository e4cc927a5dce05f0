package scoring

import "sort"

// SortKey selects the ranking order for a result set.
type SortKey string

const (
	SortByScore    SortKey = "score"
	SortByPrice    SortKey = "price"
	SortByDuration SortKey = "duration"
)

// PreviewSize is how many offers the collapsed result view shows.
const PreviewSize = 10

// ParseSortKey maps user input onto a known key, defaulting to score.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByPrice:
		return SortByPrice
	case SortByDuration:
		return SortByDuration
	default:
		return SortByScore
	}
}

// Rank returns a new slice ordered by the given key: score descending,
// price ascending, or outbound duration ascending. Sorts are stable so
// equal offers keep their incoming order, and every call re-ranks the full
// set rather than a window of it. Nothing is ever dropped here; filtering
// by price or connections is the search provider's job.
func Rank(offers []ScoredOffer, key SortKey) []ScoredOffer {
	ranked := make([]ScoredOffer, len(offers))
	copy(ranked, offers)

	switch key {
	case SortByPrice:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Offer.Price.Total < ranked[j].Offer.Price.Total
		})
	case SortByDuration:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Offer.Duration.OutboundMinutes < ranked[j].Offer.Duration.OutboundMinutes
		})
	default:
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Score > ranked[j].Score
		})
	}
	return ranked
}

// Preview cuts the ranked set down to the collapsed view.
func Preview(ranked []ScoredOffer) []ScoredOffer {
	if len(ranked) <= PreviewSize {
		return ranked
	}
	return ranked[:PreviewSize]
}
