package domain

import "context"

// VenueRecord is a raw registry row, before resolution/normalization.
type VenueRecord struct {
	ID            string
	Name          string
	Address       *string
	Description   *string
	Category      int
	Lat, Lng      *float64
	Photo         *string
	ScheduleOpen  *string // "HH:MM:SS"
	ScheduleClose *string
	Capacity      *int
	GenreTags     []string
	AvgRating     *float64
	Approved      bool
}

// ExternalRecord is one hit from the nearby-search provider. Coordinates are
// always present by construction.
type ExternalRecord struct {
	ID          string
	Name        string
	Lat, Lng    float64
	Rating      *float64
	RatingCount *int
	OpenNow     *bool
	Vicinity    string
}

type VenueRegistry interface {
	ListVenues(ctx context.Context) ([]VenueRecord, error)
	GetVenue(ctx context.Context, id string) (VenueRecord, error)
	SaveVenue(ctx context.Context, v VenueRecord) error
}

type NearbySearcher interface {
	Nearby(ctx context.Context, lat, lng float64, radiusMeters int, category string) ([]ExternalRecord, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type ReservationStore interface {
	CreateReservation(ctx context.Context, r ReservationRequest) error
}
