package utils

import (
	rndm "math/rand"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var referenceRunes = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// GenerateBookingReference creates an airline-style reference like
// "SKY-7QX2MA". It uses math/rand and carries no uniqueness guarantee;
// the booking submission service's durable identifier supersedes it.
func GenerateBookingReference() string {
	b := make([]rune, 6)
	for i := range b {
		b[i] = referenceRunes[rndm.Intn(len(referenceRunes))]
	}
	return "SKY-" + string(b)
}

func GetUUID() string {
	return uuid.New().String()
}
