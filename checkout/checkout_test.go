package checkout

import (
	"errors"
	"strings"
	"testing"

	"skylane/models"
)

func testOffer() models.ItineraryOffer {
	return models.ItineraryOffer{
		ID:    "offer-1",
		Price: models.Price{Total: 420, Currency: "EUR"},
		Itinerary: models.Itinerary{
			Outbound: []models.FlightSegment{{FlightNumber: "SL100", DurationMinutes: 300}},
		},
		Duration: models.TripDuration{OutboundMinutes: 300},
	}
}

func validPassenger() models.Passenger {
	return models.Passenger{
		ID:          "p1",
		Type:        models.PassengerAdult,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: "1985-12-10",
	}
}

func readyForPayment(t *testing.T) Checkout {
	t.Helper()
	c := Start(testOffer())
	c = c.WithPassengers([]models.Passenger{validPassenger()})
	c = c.WithContact(models.ContactDetails{Email: "ada@example.com"})
	c, err := c.Advance()
	if err != nil {
		t.Fatalf("advance to extras failed: %v", err)
	}
	c, err = c.Advance()
	if err != nil {
		t.Fatalf("advance to payment failed: %v", err)
	}
	return c
}

func TestStartOpensAtPassengerDetails(t *testing.T) {
	c := Start(testOffer())
	if c.Step != StepPassengerDetails {
		t.Errorf("expected %s, got %s", StepPassengerDetails, c.Step)
	}
	if c.ID == "" {
		t.Error("checkout should get an id")
	}
	if c.TotalPrice() != 420 {
		t.Errorf("total should start at the offer price, got %v", c.TotalPrice())
	}
}

func TestAdvanceBlocksIncompletePassengers(t *testing.T) {
	c := Start(testOffer())
	p := validPassenger()
	p.LastName = ""
	p.DateOfBirth = "not-a-date"
	c = c.WithPassengers([]models.Passenger{p})
	c = c.WithContact(models.ContactDetails{Email: "ada@example.com"})

	after, err := c.Advance()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if after.Step != StepPassengerDetails {
		t.Error("a failed advance must not change the step")
	}
	joined := strings.Join(verr.Fields, ",")
	if !strings.Contains(joined, "passengers[0].lastName") || !strings.Contains(joined, "passengers[0].dateOfBirth") {
		t.Errorf("error should name the offending fields, got %v", verr.Fields)
	}
}

func TestExtrasNeverReachedWithNamelessPassenger(t *testing.T) {
	c := Start(testOffer())
	c = c.WithPassengers([]models.Passenger{{FirstName: "", LastName: "Solo", DateOfBirth: "1990-01-01"}})
	c = c.WithContact(models.ContactDetails{Email: "x@example.com"})
	after, err := c.Advance()
	if err == nil || after.Step == StepExtras {
		t.Fatal("checkout must never reach extras with a passenger missing a name")
	}
}

func TestExtrasPricing(t *testing.T) {
	c := readyForPayment(t)
	base := c.TotalPrice()

	c, err := c.AddExtra("baggage")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err = c.AddExtra("insurance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.TotalPrice(); got != base+50+45 {
		t.Errorf("expected %v, got %v", base+95, got)
	}

	// Adding the same extra twice must not double charge.
	c, _ = c.AddExtra("baggage")
	if got := c.TotalPrice(); got != base+95 {
		t.Errorf("duplicate add changed the price: %v", got)
	}

	// Add-then-remove is a round trip back to the original price.
	c, _ = c.AddExtra("meal")
	c = c.RemoveExtra("meal")
	if got := c.TotalPrice(); got != base+95 {
		t.Errorf("add+remove should be price neutral, got %v", got)
	}

	if _, err := c.AddExtra("jacuzzi"); !errors.Is(err, ErrUnknownExtra) {
		t.Errorf("the catalog is closed; expected ErrUnknownExtra, got %v", err)
	}
}

func TestAdvanceBlocksEmptyPayment(t *testing.T) {
	c := readyForPayment(t)
	after, err := c.Advance()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for empty card fields, got %v", err)
	}
	if after.Order != nil {
		t.Error("no order may exist before confirmation")
	}
	if len(verr.Fields) != 4 {
		t.Errorf("all four card fields should be reported, got %v", verr.Fields)
	}
}

func TestConfirmationBuildsOrder(t *testing.T) {
	c := readyForPayment(t)
	c, _ = c.AddExtra("seat-selection")
	c = c.WithPayment(models.PaymentDetails{
		CardNumber: "4111111111111111",
		CardHolder: "Ada Lovelace",
		Expiry:     "12/28",
		CVV:        "123",
	})

	c, err := c.Advance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Step != StepConfirmation {
		t.Fatalf("expected confirmation, got %s", c.Step)
	}
	if c.Order == nil {
		t.Fatal("confirmation must produce an order")
	}
	if c.Order.Reference == "" {
		t.Error("order needs a reference")
	}
	if c.Order.TotalPrice != 445 {
		t.Errorf("expected order total 445, got %v", c.Order.TotalPrice)
	}
	if c.Order.Currency != "EUR" {
		t.Errorf("order currency should follow the offer, got %q", c.Order.Currency)
	}

	if _, err := c.Advance(); err == nil {
		t.Error("confirmation is terminal; advancing further must fail")
	}
}

func TestRetreatKeepsData(t *testing.T) {
	c := readyForPayment(t)
	c, _ = c.AddExtra("meal")

	c, err := c.Retreat()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Step != StepExtras {
		t.Fatalf("expected extras, got %s", c.Step)
	}
	if len(c.Passengers) != 1 || c.Passengers[0].FirstName != "Ada" {
		t.Error("retreating must not discard passenger data")
	}
	if len(c.ExtraIDs) != 1 {
		t.Error("retreating must not discard selected extras")
	}

	c, err = c.Retreat()
	if err != nil || c.Step != StepPassengerDetails {
		t.Fatalf("expected passenger details, got %s (%v)", c.Step, err)
	}
	if _, err := c.Retreat(); err == nil {
		t.Error("retreating from the first step must fail")
	}
}

func TestCatalogIsFixed(t *testing.T) {
	want := map[string]float64{
		"baggage":        50,
		"seat-selection": 25,
		"meal":           35,
		"insurance":      45,
	}
	if len(Catalog) != len(want) {
		t.Fatalf("catalog should have %d entries, got %d", len(want), len(Catalog))
	}
	for id, price := range want {
		got, ok := ExtraPrice(id)
		if !ok || got != price {
			t.Errorf("extra %q: expected %v, got %v (ok=%v)", id, price, got, ok)
		}
	}
}
