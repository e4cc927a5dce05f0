package mq

import (
	"context"
	"encoding/json"
	"log"

	"skylane/db"
	"skylane/models"
	"skylane/rdx"
)

const bookingChannel = "booking-events"

// EmitBookingConfirmed publishes a confirmed booking to Redis. Failures are
// logged, never surfaced: the booking itself already succeeded.
func EmitBookingConfirmed(ctx context.Context, event models.BookingEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[mq] failed to marshal booking event: %v", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, bookingChannel, data).Err(); err != nil {
		log.Printf("[mq] failed to publish booking event: %v", err)
	}
}

// StartBookingEventWorker records published booking events into Mongo so
// history survives Redis restarts. Runs until the process exits.
func StartBookingEventWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, bookingChannel)
	ch := sub.Channel()

	log.Println("[mq] booking event worker listening")

	for msg := range ch {
		var event models.BookingEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[mq] failed to parse booking event: %v", err)
			continue
		}
		if _, err := db.BookingEventsCollection.InsertOne(ctx, event); err != nil {
			log.Printf("[mq] failed to record booking event %s: %v", event.Reference, err)
		}
	}
}
