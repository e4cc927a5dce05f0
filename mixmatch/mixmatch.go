package mixmatch

import (
	"fmt"
	"strings"

	"skylane/models"
)

// Session is the per-user mix-and-match selection state. Operations return
// a new Session value instead of mutating the receiver, so a handler can
// persist whichever version it ends up with and pricing stays reproducible.
type Session struct {
	ID               string                 `json:"id"`
	Enabled          bool                   `json:"enabled"`
	OneWay           bool                   `json:"oneWay"`
	SelectedOutbound *models.ItineraryOffer `json:"selectedOutbound,omitempty"`
	SelectedInbound  *models.ItineraryOffer `json:"selectedInbound,omitempty"`
}

// MissingSelectionError rejects Combine before both legs are chosen.
type MissingSelectionError struct {
	Missing []string
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("cannot combine: missing %s selection", strings.Join(e.Missing, " and "))
}

// NewSession starts a fresh selection state for a search session.
func NewSession(id string, oneWay bool) Session {
	return Session{ID: id, OneWay: oneWay}
}

// SelectOutbound records the outbound choice. For one-way trips, or when
// mix-and-match is off, the chosen offer is the whole selection: the
// returned offer is final and should go straight to checkout. Otherwise the
// caller waits for an inbound choice and Combine.
func (s Session) SelectOutbound(offer models.ItineraryOffer) (Session, *models.ItineraryOffer) {
	if s.OneWay || !s.Enabled {
		s.SelectedOutbound = &offer
		return s, &offer
	}
	s.SelectedOutbound = &offer
	return s, nil
}

// SelectInbound records the inbound choice. It never finalizes on its own;
// Combine does that.
func (s Session) SelectInbound(offer models.ItineraryOffer) Session {
	s.SelectedInbound = &offer
	return s
}

// Toggle flips mix-and-match mode and drops both selections. A selection
// made under one mode's semantics must never leak into the other.
func (s Session) Toggle() Session {
	s.Enabled = !s.Enabled
	s.SelectedOutbound = nil
	s.SelectedInbound = nil
	return s
}

// Combine fuses the two selections into one bookable offer. Both legs must
// be selected; calling it earlier returns a MissingSelectionError naming
// what is absent, and the session is left untouched.
//
// The return leg is taken from the inbound selection's *outbound* leg: the
// inbound pick is an offer that provides a leg, not a round trip of its
// own. Whether every offer's outbound leg is genuinely swappable as a
// return leg is an open question inherited from the original behaviour;
// it is kept as-is deliberately.
func (s Session) Combine() (models.ItineraryOffer, error) {
	var missing []string
	if s.SelectedOutbound == nil {
		missing = append(missing, "outbound")
	}
	if s.SelectedInbound == nil {
		missing = append(missing, "inbound")
	}
	if len(missing) > 0 {
		return models.ItineraryOffer{}, &MissingSelectionError{Missing: missing}
	}

	out := *s.SelectedOutbound
	in := *s.SelectedInbound

	combined := models.ItineraryOffer{
		ID:     fmt.Sprintf("mix-%s-%s", out.ID, in.ID),
		Source: "mix-and-match",
		Price: models.Price{
			Total:    out.Price.Total + in.Price.Total,
			Base:     out.Price.Base + in.Price.Base,
			Taxes:    out.Price.Taxes + in.Price.Taxes,
			Currency: out.Price.Currency,
		},
		Itinerary: models.Itinerary{
			Outbound: out.Itinerary.Outbound,
			Inbound:  in.Itinerary.Outbound,
		},
		Layovers: append(append([]models.LayoverWindow{}, out.Layovers...), in.Layovers...),
		Airline:  out.Airline,
		Duration: models.TripDuration{
			OutboundMinutes: out.Duration.OutboundMinutes,
			InboundMinutes:  in.Duration.OutboundMinutes,
		},
	}
	return combined, nil
}
