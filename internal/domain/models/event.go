package models

import "github.com/google/uuid"

// Event is an outbox record: written in the same transaction as the state
// change it describes, published to the broker by the event sender.
type Event struct {
	ID      uuid.UUID
	Type    string
	Payload string
}

const (
	EventUserRegistered       = "user_registered"
	EventReservationRequested = "reservation_requested"
	EventReservationApproved  = "reservation_approved"
	EventReservationRejected  = "reservation_rejected"
	EventReservationCancelled = "reservation_cancelled"
)
