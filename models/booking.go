package models

import "time"

type PassengerType string

const (
	PassengerAdult  PassengerType = "adult"
	PassengerChild  PassengerType = "child"
	PassengerInfant PassengerType = "infant"
)

// Passenger holds one traveller's details. By convention only the first
// passenger carries the contact fields.
type Passenger struct {
	ID          string        `json:"id" bson:"id"`
	Type        PassengerType `json:"type" bson:"type"`
	Title       string        `json:"title,omitempty" bson:"title,omitempty"`
	FirstName   string        `json:"firstName" bson:"firstName"`
	LastName    string        `json:"lastName" bson:"lastName"`
	DateOfBirth string        `json:"dateOfBirth" bson:"dateOfBirth"` // YYYY-MM-DD
	Email       string        `json:"email,omitempty" bson:"email,omitempty"`
	Phone       string        `json:"phone,omitempty" bson:"phone,omitempty"`
}

type ContactDetails struct {
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// PaymentDetails are checked for presence only. Authorization is the
// payment service's problem, not ours.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber" bson:"cardNumber"`
	CardHolder string `json:"cardHolder" bson:"cardHolder"`
	Expiry     string `json:"expiry" bson:"expiry"`
	CVV        string `json:"cvv" bson:"-"`
}

// BookingOrder is the final result of a completed checkout. It exists only
// once the state machine reaches its terminal state.
type BookingOrder struct {
	Reference  string         `json:"reference" bson:"reference"`
	CheckoutID string         `json:"checkoutId" bson:"checkoutId"`
	Offer      ItineraryOffer `json:"offer" bson:"offer"`
	Passengers []Passenger    `json:"passengers" bson:"passengers"`
	Contact    ContactDetails `json:"contact" bson:"contact"`
	ExtraIDs   []string       `json:"extraIds" bson:"extraIds"`
	Payment    PaymentDetails `json:"payment" bson:"payment"`
	TotalPrice float64        `json:"totalPrice" bson:"totalPrice"`
	Currency   string         `json:"currency" bson:"currency"`
	CreatedAt  time.Time      `json:"createdAt" bson:"createdAt"`
}
