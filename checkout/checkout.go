package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"skylane/models"
	"skylane/utils"
)

// Step is one stage of the linear checkout flow.
type Step string

const (
	StepPassengerDetails Step = "passenger-details"
	StepExtras           Step = "extras"
	StepPayment          Step = "payment"
	StepConfirmation     Step = "confirmation"
)

// steps in order. Confirmation is terminal; there is no way forward from it
// and no cycle anywhere.
var steps = []Step{StepPassengerDetails, StepExtras, StepPayment, StepConfirmation}

// Extra is one entry of the fixed add-on catalog.
type Extra struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Catalog is the closed set of bookable extras. Prices are flat, in the
// offer's currency.
var Catalog = []Extra{
	{ID: "baggage", Label: "Checked baggage", Price: 50},
	{ID: "seat-selection", Label: "Seat selection", Price: 25},
	{ID: "meal", Label: "Meal", Price: 35},
	{ID: "insurance", Label: "Travel insurance", Price: 45},
}

// ExtraPrice resolves a catalog id to its price.
func ExtraPrice(id string) (float64, bool) {
	for _, e := range Catalog {
		if e.ID == id {
			return e.Price, true
		}
	}
	return 0, false
}

var ErrUnknownExtra = errors.New("unknown extra")

// ValidationError lists the fields that block a transition. The checkout it
// was returned from is unchanged.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// Checkout is one booking in progress. All operations return a new value;
// the caller persists whichever version it keeps. Order is nil until the
// flow reaches confirmation.
type Checkout struct {
	ID         string                `json:"id"`
	Offer      models.ItineraryOffer `json:"offer"`
	Step       Step                  `json:"step"`
	Passengers []models.Passenger    `json:"passengers"`
	Contact    models.ContactDetails `json:"contact"`
	ExtraIDs   []string              `json:"extraIds"`
	Payment    models.PaymentDetails `json:"payment"`
	Order      *models.BookingOrder  `json:"order,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
}

// Start opens a checkout for a chosen or combined offer.
func Start(offer models.ItineraryOffer) Checkout {
	return Checkout{
		ID:        utils.GetUUID(),
		Offer:     offer,
		Step:      StepPassengerDetails,
		ExtraIDs:  []string{},
		CreatedAt: time.Now().UTC(),
	}
}

// TotalPrice is always recomputed from the offer and the current extras,
// never cached, so add/remove sequences cannot leave a stale figure.
func (c Checkout) TotalPrice() float64 {
	total := c.Offer.Price.Total
	for _, id := range c.ExtraIDs {
		if price, ok := ExtraPrice(id); ok {
			total += price
		}
	}
	return total
}

// WithPassengers replaces the passenger list.
func (c Checkout) WithPassengers(passengers []models.Passenger) Checkout {
	c.Passengers = passengers
	return c
}

// WithContact sets the contact details carried by the first passenger.
func (c Checkout) WithContact(contact models.ContactDetails) Checkout {
	c.Contact = contact
	return c
}

// WithPayment records card fields; they are validated for presence at the
// payment transition, never authorized here.
func (c Checkout) WithPayment(payment models.PaymentDetails) Checkout {
	c.Payment = payment
	return c
}

// AddExtra selects a catalog extra. Ids outside the catalog are rejected;
// selecting the same extra twice is a no-op.
func (c Checkout) AddExtra(id string) (Checkout, error) {
	if _, ok := ExtraPrice(id); !ok {
		return c, fmt.Errorf("%w: %q", ErrUnknownExtra, id)
	}
	for _, existing := range c.ExtraIDs {
		if existing == id {
			return c, nil
		}
	}
	c.ExtraIDs = append(append([]string{}, c.ExtraIDs...), id)
	return c, nil
}

// RemoveExtra deselects an extra. Removing something not selected is fine.
func (c Checkout) RemoveExtra(id string) Checkout {
	kept := make([]string, 0, len(c.ExtraIDs))
	for _, existing := range c.ExtraIDs {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	c.ExtraIDs = kept
	return c
}

// Advance moves one step forward after validating the current step's data.
// A failed validation returns the checkout unchanged together with a
// ValidationError naming the offending fields. Advancing from the payment
// step produces the final BookingOrder.
func (c Checkout) Advance() (Checkout, error) {
	switch c.Step {
	case StepPassengerDetails:
		if fields := c.validatePassengers(); len(fields) > 0 {
			return c, &ValidationError{Fields: fields}
		}
		c.Step = StepExtras
		return c, nil
	case StepExtras:
		// Extras are optional and ids were validated when added.
		c.Step = StepPayment
		return c, nil
	case StepPayment:
		if fields := c.validatePayment(); len(fields) > 0 {
			return c, &ValidationError{Fields: fields}
		}
		c.Step = StepConfirmation
		c.Order = c.buildOrder()
		return c, nil
	default:
		return c, errors.New("checkout is already confirmed")
	}
}

// Retreat moves exactly one step back. Everything entered so far is kept.
func (c Checkout) Retreat() (Checkout, error) {
	for i, s := range steps {
		if s == c.Step {
			if i == 0 {
				return c, errors.New("already at the first step")
			}
			c.Step = steps[i-1]
			// Stepping back out of confirmation withdraws the provisional
			// order; the data that built it stays.
			c.Order = nil
			return c, nil
		}
	}
	return c, fmt.Errorf("unknown step %q", c.Step)
}

func (c Checkout) validatePassengers() []string {
	var fields []string
	if len(c.Passengers) == 0 {
		fields = append(fields, "passengers")
	}
	for i, p := range c.Passengers {
		if strings.TrimSpace(p.FirstName) == "" {
			fields = append(fields, fmt.Sprintf("passengers[%d].firstName", i))
		}
		if strings.TrimSpace(p.LastName) == "" {
			fields = append(fields, fmt.Sprintf("passengers[%d].lastName", i))
		}
		if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
			fields = append(fields, fmt.Sprintf("passengers[%d].dateOfBirth", i))
		}
	}
	if strings.TrimSpace(c.Contact.Email) == "" {
		fields = append(fields, "contact.email")
	}
	return fields
}

func (c Checkout) validatePayment() []string {
	var fields []string
	if strings.TrimSpace(c.Payment.CardNumber) == "" {
		fields = append(fields, "payment.cardNumber")
	}
	if strings.TrimSpace(c.Payment.CardHolder) == "" {
		fields = append(fields, "payment.cardHolder")
	}
	if strings.TrimSpace(c.Payment.Expiry) == "" {
		fields = append(fields, "payment.expiry")
	}
	if strings.TrimSpace(c.Payment.CVV) == "" {
		fields = append(fields, "payment.cvv")
	}
	return fields
}

func (c Checkout) buildOrder() *models.BookingOrder {
	return &models.BookingOrder{
		// The generated reference is provisional: it is not cryptographic
		// and has no collision guarantee. The booking submission service's
		// own identifier supersedes it.
		Reference:  utils.GenerateBookingReference(),
		CheckoutID: c.ID,
		Offer:      c.Offer,
		Passengers: append([]models.Passenger{}, c.Passengers...),
		Contact:    c.Contact,
		ExtraIDs:   append([]string{}, c.ExtraIDs...),
		Payment:    c.Payment,
		TotalPrice: c.TotalPrice(),
		Currency:   c.Offer.Price.Currency,
		CreatedAt:  time.Now().UTC(),
	}
}
