package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"skylane/db"
	"skylane/middleware"
	"skylane/models"
	"skylane/mq"
	"skylane/rdx"
	"skylane/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkoutTTL = 2 * time.Hour

func stateKey(id string) string { return fmt.Sprintf("checkout:%s", id) }

// stateStore keeps in-progress checkouts between requests.
type stateStore interface {
	Save(ctx context.Context, c Checkout) error
	Load(ctx context.Context, id string) (Checkout, bool, error)
}

// redisStore is the production stateStore on the shared connection.
type redisStore struct{}

func (redisStore) Save(ctx context.Context, c Checkout) error {
	return rdx.SetJSON(ctx, stateKey(c.ID), c, checkoutTTL)
}

func (redisStore) Load(ctx context.Context, id string) (Checkout, bool, error) {
	var c Checkout
	ok, err := rdx.GetJSON(ctx, stateKey(id), &c)
	return c, ok, err
}

var store stateStore = redisStore{}

// Save persists the current checkout state for its session TTL.
func Save(ctx context.Context, c Checkout) error {
	return store.Save(ctx, c)
}

// Load fetches a checkout; the bool is false when it is unknown or expired.
func Load(ctx context.Context, id string) (Checkout, bool, error) {
	return store.Load(ctx, id)
}

// SessionToken signs the bearer token that guards this checkout's steps.
func SessionToken(checkoutID string) (string, error) {
	return middleware.CreateCheckoutToken(checkoutID)
}

// authorized loads the checkout named in the path and verifies the token
// grants access to exactly that checkout.
func authorized(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (Checkout, bool) {
	id := ps.ByName("checkoutid")
	if middleware.CheckoutIDFromRequest(r) != id {
		utils.RespondWithError(w, http.StatusForbidden, "Token does not match this checkout")
		return Checkout{}, false
	}
	c, ok, err := Load(r.Context(), id)
	if err != nil {
		log.Printf("failed to load checkout %s: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load checkout")
		return Checkout{}, false
	}
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Unknown or expired checkout")
		return Checkout{}, false
	}
	return c, true
}

type startBody struct {
	Offer models.ItineraryOffer `json:"offer"`
}

// HandleStart opens a checkout directly from an offer the caller already
// holds (the selection endpoints open checkouts themselves for the common
// path).
func HandleStart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body startBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.Offer.ID == "" || len(body.Offer.Itinerary.Outbound) == 0 {
		utils.RespondWithValidationError(w, "offer is incomplete", []string{"offer.id", "offer.itinerary.outbound"})
		return
	}

	c := Start(body.Offer)
	if err := Save(r.Context(), c); err != nil {
		log.Printf("failed to store checkout %s: %v", c.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to open checkout")
		return
	}
	token, err := SessionToken(c.ID)
	if err != nil {
		log.Printf("failed to sign checkout token for %s: %v", c.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to open checkout")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"checkout": c, "token": token})
}

// HandleGet returns the current state, the recomputed total, and the
// extras catalog for rendering.
func HandleGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := authorized(w, r, ps)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"checkout":   c,
		"totalPrice": c.TotalPrice(),
		"catalog":    Catalog,
	})
}

type passengersBody struct {
	Passengers []models.Passenger    `json:"passengers"`
	Contact    models.ContactDetails `json:"contact"`
}

// HandlePassengers stores the passenger list and contact details. Data is
// validated at the advance, not here, so partial entry is fine.
func HandlePassengers(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := authorized(w, r, ps)
	if !ok {
		return
	}
	var body passengersBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	c = c.WithPassengers(body.Passengers).WithContact(body.Contact)
	if err := Save(r.Context(), c); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store checkout")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

type extrasBody struct {
	Add    []string `json:"add,omitempty"`
	Remove []string `json:"remove,omitempty"`
}

// HandleExtras adds and removes catalog extras. The total in the response
// is recomputed from scratch every time.
func HandleExtras(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := authorized(w, r, ps)
	if !ok {
		return
	}
	var body extrasBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	for _, id := range body.Add {
		var err error
		c, err = c.AddExtra(id)
		if errors.Is(err, ErrUnknownExtra) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	for _, id := range body.Remove {
		c = c.RemoveExtra(id)
	}

	if err := Save(r.Context(), c); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store checkout")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"checkout": c, "totalPrice": c.TotalPrice()})
}

// HandlePayment stores card fields for the payment step.
func HandlePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := authorized(w, r, ps)
	if !ok {
		return
	}
	var payment models.PaymentDetails
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	c = c.WithPayment(payment)
	if err := Save(r.Context(), c); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store checkout")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// HandleAdvance moves the state machine one step forward. Reaching
// confirmation submits the order to the booking store and publishes the
// booking event.
func HandleAdvance(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := authorized(w, r, ps)
	if !ok {
		return
	}

	advanced, err := c.Advance()
	var verr *ValidationError
	if errors.As(err, &verr) {
		utils.RespondWithValidationError(w, "cannot continue yet", verr.Fields)
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}

	if advanced.Step == StepConfirmation && advanced.Order != nil {
		if err := submitOrder(r.Context(), *advanced.Order); err != nil {
			log.Printf("failed to submit order %s: %v", advanced.Order.Reference, err)
			utils.RespondWithError(w, http.StatusBadGateway, "Booking submission failed, please retry")
			return
		}
	}

	if err := Save(r.Context(), advanced); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store checkout")
		return
	}

	// The event follows the durable state; a retried advance after a
	// store failure re-submits but never double-announces.
	if advanced.Step == StepConfirmation && advanced.Order != nil {
		mq.EmitBookingConfirmed(r.Context(), models.BookingEvent{
			Reference:  advanced.Order.Reference,
			CheckoutID: advanced.ID,
			OfferID:    advanced.Offer.ID,
			TotalPrice: advanced.Order.TotalPrice,
			Currency:   advanced.Order.Currency,
			CreatedAt:  advanced.Order.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"checkout": advanced, "totalPrice": advanced.TotalPrice()})
}

// HandleRetreat moves one step back, keeping everything entered so far.
func HandleRetreat(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, ok := authorized(w, r, ps)
	if !ok {
		return
	}

	back, err := c.Retreat()
	if err != nil {
		utils.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	if err := Save(r.Context(), back); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store checkout")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"checkout": back, "totalPrice": back.TotalPrice()})
}

// submitOrder hands the finalized order to the booking store. Our reference
// is provisional; the store's durable identifier wins if they disagree.
var submitOrder = submitToStore

// submitToStore upserts on the checkout id, so a retried advance replaces
// its earlier submission instead of inserting a duplicate order.
func submitToStore(ctx context.Context, order models.BookingOrder) error {
	opts := options.Replace().SetUpsert(true)
	_, err := db.BookingsCollection.ReplaceOne(ctx, bson.M{"checkoutId": order.CheckoutID}, order, opts)
	return err
}
