package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"nightspot/internal/domain"
)

// ReservationInput is the raw form a caller submits. Date is "2006-01-02",
// Time is "HH:MM" or "HH:MM:SS".
type ReservationInput struct {
	VenueID   string
	UserID    string
	Date      string
	Time      string
	PartySize int
}

// RemoteError is a backend rejection already translated (or passed through)
// for the end user.
type RemoteError struct{ Msg string }

func (e *RemoteError) Error() string { return e.Msg }

// ReservationService validates a request against the venue's declared
// schedule and capacity, then submits it. The backend owns everything past
// Pending; there is no retry here.
type ReservationService struct {
	store domain.ReservationStore
	now   func() time.Time
}

func NewReservationService(store domain.ReservationStore) *ReservationService {
	return &ReservationService{store: store, now: time.Now}
}

// SetClock overrides the service's notion of "now". Tests only.
func (s *ReservationService) SetClock(now func() time.Time) { s.now = now }

// Submit runs every local check, and only on a clean pass builds the request
// and hands it to the backend. Returns domain.FieldErrors for local
// rejections and *RemoteError for backend ones.
func (s *ReservationService) Submit(ctx context.Context, venue domain.Place, in ReservationInput) (domain.ReservationRequest, error) {
	now := s.now()
	if errs := Validate(venue, in, now); len(errs) > 0 {
		return domain.ReservationRequest{}, errs
	}

	// validated above, cannot fail here
	at, _ := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+clockHHMM(in.Time), now.Location())

	req := domain.ReservationRequest{
		ID:              uuid.New(),
		VenueID:         in.VenueID,
		UserID:          in.UserID,
		RequestedAt:     at,
		PartySize:       in.PartySize,
		ToleranceWindow: domain.ToleranceWindow,
		Status:          domain.StatusPending,
		CreatedAt:       now,
	}
	if err := s.store.CreateReservation(ctx, req); err != nil {
		log.Warn().Str("venue", in.VenueID).Err(err).Msg("reservation rejected by backend")
		return domain.ReservationRequest{}, &RemoteError{Msg: Classify(err.Error())}
	}
	return req, nil
}

// Validate runs all field checks independently and reports them together.
func Validate(venue domain.Place, in ReservationInput, now time.Time) domain.FieldErrors {
	errs := domain.FieldErrors{}

	var dateOK, timeOK bool
	var day time.Time
	var minutes int

	if strings.TrimSpace(in.Date) == "" {
		errs["date"] = "date is required"
	} else if d, err := time.ParseInLocation("2006-01-02", in.Date, now.Location()); err != nil {
		errs["date"] = "date must be YYYY-MM-DD"
	} else {
		day, dateOK = d, true
	}

	if strings.TrimSpace(in.Time) == "" {
		errs["time"] = "time is required"
	} else if m, err := domain.ParseClock(in.Time); err != nil {
		errs["time"] = "time must be HH:MM"
	} else {
		minutes, timeOK = m, true
	}

	if dateOK && timeOK {
		at := day.Add(time.Duration(minutes) * time.Minute)
		if at.Before(now) {
			errs["date"] = "reservation must be in the future"
		}
	}

	if timeOK && venue.ScheduleOpen != nil && venue.ScheduleClose != nil {
		if !domain.WithinHours(*venue.ScheduleOpen, *venue.ScheduleClose, minutes) {
			errs["time"] = fmt.Sprintf("venue is closed at that time (open %s to %s)",
				clockString(*venue.ScheduleOpen), clockString(*venue.ScheduleClose))
		}
	}

	if in.PartySize < 1 {
		errs["party_size"] = "party size must be at least 1"
	} else if venue.Capacity != nil && *venue.Capacity > 0 && in.PartySize > *venue.Capacity {
		errs["party_size"] = fmt.Sprintf("party size exceeds venue capacity of %d", *venue.Capacity)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Friendly categories for classified backend rejections.
const (
	MsgAccountDeactivated = "Your account has been deactivated. Contact support to reactivate it."
	MsgDuplicatePending   = "You already have a pending reservation for this venue."
	MsgDuplicateConfirmed = "You already have a confirmed reservation for this venue."
	MsgVenueUnavailable   = "This venue is not taking reservations right now."
)

// Classify maps legacy backend error text onto a friendly category, first
// match wins; unknown text passes through verbatim. The substring contract
// is inherited from the backend and isolated here so structured codes can
// replace it.
func Classify(msg string) string {
	low := strings.ToLower(msg)
	switch {
	case strings.Contains(low, "inactiv") || strings.Contains(low, "desactivad"):
		return MsgAccountDeactivated
	case strings.Contains(low, "pendiente"):
		return MsgDuplicatePending
	case strings.Contains(low, "aprobada"):
		return MsgDuplicateConfirmed
	case strings.Contains(low, "comercio") && strings.Contains(low, "disponible"):
		return MsgVenueUnavailable
	default:
		return msg
	}
}

func clockHHMM(s string) string {
	m, _ := domain.ParseClock(s)
	return clockString(m)
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
