package app

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"nightspot/internal/domain"
)

// MaxFallbackOffset bounds the synthesized-coordinate scatter per axis
// (degrees, roughly ±1.1 km).
const MaxFallbackOffset = 0.01

// OffsetFunc produces the (dLat, dLng) scatter applied to fallback
// coordinates. Injectable so tests can pin it while production keeps
// visual spread.
type OffsetFunc func() (dLat, dLng float64)

// RandomOffset returns an OffsetFunc drawing uniformly from
// [-MaxFallbackOffset, +MaxFallbackOffset] on each axis.
func RandomOffset(r *rand.Rand) OffsetFunc {
	return func() (float64, float64) {
		return (r.Float64()*2 - 1) * MaxFallbackOffset,
			(r.Float64()*2 - 1) * MaxFallbackOffset
	}
}

// Resolver turns a registry record into a usable coordinate. It never fails:
// records without coordinates and without a geocodable address get an
// approximate position near the requester.
type Resolver struct {
	geocoder domain.Geocoder
	cache    domain.Cache
	cacheTTL time.Duration
	offset   OffsetFunc
}

func NewResolver(g domain.Geocoder, c domain.Cache, ttl time.Duration, off OffsetFunc) *Resolver {
	return &Resolver{geocoder: g, cache: c, cacheTTL: ttl, offset: off}
}

// Resolve applies the fallback chain: trust registry coordinates, then
// geocode the address (through the cache), then synthesize near origin.
// The returned bool is the approximate flag.
func (r *Resolver) Resolve(ctx context.Context, rec domain.VenueRecord, origin domain.Coordinate) (domain.Coordinate, bool) {
	// Registry coordinates win when present and non-zero. (0,0) is the
	// registry's "unset" value, not a venue in the Gulf of Guinea.
	if rec.Lat != nil && rec.Lng != nil && (*rec.Lat != 0 || *rec.Lng != 0) {
		return domain.Coordinate{Lat: *rec.Lat, Lng: *rec.Lng}, false
	}

	if rec.Address != nil && strings.TrimSpace(*rec.Address) != "" {
		if c, err := r.geocode(ctx, strings.TrimSpace(*rec.Address)); err == nil {
			return c, false
		} else {
			log.Warn().Str("venue", rec.ID).Err(err).Msg("geocode failed, synthesizing coordinate")
		}
	}

	dLat, dLng := r.offset()
	return domain.Coordinate{Lat: origin.Lat + dLat, Lng: origin.Lng + dLng}, true
}

func (r *Resolver) geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	key := geocodeKey(address)
	var c domain.Coordinate
	if r.cache != nil {
		if ok, _ := r.cache.Get(ctx, key, &c); ok {
			return c, nil
		}
	}
	c, err := r.geocoder.Geocode(ctx, address)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %v", domain.ErrGeocode, err)
	}
	if r.cache != nil {
		_ = r.cache.Set(ctx, key, c, int(r.cacheTTL.Seconds()))
	}
	return c, nil
}

func geocodeKey(address string) string {
	return "geo:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}
