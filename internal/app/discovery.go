package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"nightspot/internal/domain"
)

// ExternalCategory is the fixed category discovery asks the provider for.
const ExternalCategory = "bar"

// DiscoveryService merges the curated registry with the nearby-search
// provider into one Place list.
type DiscoveryService struct {
	registry domain.VenueRegistry
	search   domain.NearbySearcher
	resolver *Resolver
	workers  int64
}

func NewDiscoveryService(reg domain.VenueRegistry, search domain.NearbySearcher, res *Resolver, workers int) *DiscoveryService {
	if workers <= 0 {
		workers = 8
	}
	return &DiscoveryService{registry: reg, search: search, resolver: res, workers: int64(workers)}
}

// Discover fetches both sources concurrently and gathers whatever survives.
// The external fetch failing degrades to local-only results; the registry
// failing fails the whole call. Every returned Place carries a resolved
// coordinate. No dedup is attempted between sources: a venue present in both
// appears twice.
func (s *DiscoveryService) Discover(ctx context.Context, origin domain.Coordinate, radiusMeters int, includeExternal bool) ([]domain.Place, error) {
	var (
		wg        sync.WaitGroup
		locals    []domain.Place
		localErr  error
		externals []domain.Place
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		locals, localErr = s.fetchLocal(ctx, origin)
	}()

	if includeExternal {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, err := s.search.Nearby(ctx, origin.Lat, origin.Lng, radiusMeters, ExternalCategory)
			if err != nil {
				// degraded but usable: keep the local contribution
				log.Warn().Err(err).Msg("external search failed, continuing local-only")
				return
			}
			externals = make([]domain.Place, 0, len(recs))
			for _, rec := range recs {
				externals = append(externals, normalizeExternal(rec))
			}
		}()
	}

	wg.Wait()
	if localErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLocalSource, localErr)
	}
	return append(locals, externals...), nil
}

func (s *DiscoveryService) fetchLocal(ctx context.Context, origin domain.Coordinate) ([]domain.Place, error) {
	recs, err := s.registry.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	kept := recs[:0]
	for _, rec := range recs {
		if rec.Approved {
			kept = append(kept, rec)
		}
	}

	// Resolve each record independently; one slow or failing geocode must
	// not block the rest. Bounded like the ingest pools elsewhere.
	out := make([]domain.Place, len(kept))
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	for i, rec := range kept {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, rec domain.VenueRecord) {
			defer wg.Done()
			defer sem.Release(1)
			coord, approx := s.resolver.Resolve(ctx, rec, origin)
			out[i] = normalizeLocal(rec, coord, approx)
		}(i, rec)
	}
	wg.Wait()
	return out, nil
}

func normalizeLocal(rec domain.VenueRecord, coord domain.Coordinate, approx bool) domain.Place {
	p := domain.Place{
		ID:          rec.ID,
		Name:        rec.Name,
		Category:    rec.Category,
		Coord:       coord,
		Source:      domain.SourceLocal,
		Approximate: approx,
		Rating:      rec.AvgRating,
		Capacity:    rec.Capacity,
		GenreTags:   rec.GenreTags,
	}
	if rec.Address != nil {
		p.Address = *rec.Address
	}
	if rec.Description != nil {
		p.Description = *rec.Description
	}
	if rec.ScheduleOpen != nil {
		if m, err := domain.ParseClock(*rec.ScheduleOpen); err == nil {
			p.ScheduleOpen = &m
		}
	}
	if rec.ScheduleClose != nil {
		if m, err := domain.ParseClock(*rec.ScheduleClose); err == nil {
			p.ScheduleClose = &m
		}
	}
	return p
}

func normalizeExternal(rec domain.ExternalRecord) domain.Place {
	return domain.Place{
		ID:          rec.ID,
		Name:        rec.Name,
		Address:     rec.Vicinity,
		Category:    externalCategoryID,
		Coord:       domain.Coordinate{Lat: rec.Lat, Lng: rec.Lng},
		Source:      domain.SourceExternal,
		Rating:      rec.Rating,
		RatingCount: rec.RatingCount,
		OpenNow:     rec.OpenNow,
	}
}

// externalCategoryID is the numeric category every provider hit maps to,
// matching the fixed "bar" search.
const externalCategoryID = 2
