package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	StatusPending  ReservationStatus = "pending"
	StatusApproved ReservationStatus = "approved"
	StatusRejected ReservationStatus = "rejected"
)

// ToleranceWindow is the grace duration attached to every reservation at
// creation.
const ToleranceWindow = 15 * time.Minute

// ReservationRequest is built only after local validation passes. Status
// transitions past Pending are owned by the reservation backend.
type ReservationRequest struct {
	ID              uuid.UUID         `json:"id"`
	VenueID         string            `json:"venue_id"`
	UserID          string            `json:"user_id"`
	RequestedAt     time.Time         `json:"requested_at"`
	PartySize       int               `json:"party_size"`
	ToleranceWindow time.Duration     `json:"tolerance_window"`
	Status          ReservationStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
}
