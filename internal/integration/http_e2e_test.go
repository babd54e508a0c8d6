//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	server "nightspot/internal/adapters/http_server"
	"nightspot/internal/app"
	"nightspot/internal/domain"
)

// ---------- fakes ----------

func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }

type fakeRegistry struct{ recs []domain.VenueRecord }

func (r *fakeRegistry) ListVenues(ctx context.Context) ([]domain.VenueRecord, error) {
	return r.recs, nil
}

func (r *fakeRegistry) GetVenue(ctx context.Context, id string) (domain.VenueRecord, error) {
	for _, rec := range r.recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return domain.VenueRecord{}, domain.ErrNotFound
}

func (r *fakeRegistry) SaveVenue(ctx context.Context, v domain.VenueRecord) error { return nil }

type fakeSearcher struct{ recs []domain.ExternalRecord }

func (s *fakeSearcher) Nearby(ctx context.Context, lat, lng float64, radius int, category string) ([]domain.ExternalRecord, error) {
	return s.recs, nil
}

type fakeGeocoder struct{}

func (fakeGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	return domain.Coordinate{Lat: 10.49, Lng: -66.88}, nil
}

type fakeStore struct{ err error }

func (s *fakeStore) CreateReservation(ctx context.Context, r domain.ReservationRequest) error {
	return s.err
}

func newServer(reg *fakeRegistry, search *fakeSearcher, store *fakeStore) *httptest.Server {
	resolver := app.NewResolver(fakeGeocoder{}, nil, time.Minute, func() (float64, float64) { return 0.001, 0.001 })
	h := &server.Handlers{
		Discovery:    app.NewDiscoveryService(reg, search, resolver, 4),
		Reservations: app.NewReservationService(store),
		Registry:     reg,
	}
	srv := server.New()
	srv.MountHandlers(h)
	return httptest.NewServer(srv.Mux())
}

// ---------- the tests ----------

func TestHTTP_EndToEnd_Discovery(t *testing.T) {
	reg := &fakeRegistry{recs: []domain.VenueRecord{
		{ID: "l1", Name: "La Terraza", Lat: pfloat(10.5), Lng: pfloat(-66.9), Category: 2, Approved: true},
		{ID: "l2", Name: "Draft", Category: 2}, // unapproved, must not appear
	}}
	search := &fakeSearcher{recs: []domain.ExternalRecord{
		{ID: "x1", Name: "Bar Centro", Lat: 10.49, Lng: -66.89, Vicinity: "Av. Urdaneta"},
	}}
	ts := newServer(reg, search, &fakeStore{})
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/venues?lat=10.5&lng=-66.9&sort=name")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	if res.Header.Get("ETag") == "" {
		t.Fatal("missing ETag")
	}

	var body struct {
		Items []struct {
			ID     string `json:"id"`
			Source string `json:"source"`
		} `json:"items"`
		TotalItems int `json:"total_items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalItems != 2 {
		t.Fatalf("total = %d, want 2 (approved local + external)", body.TotalItems)
	}
	for _, it := range body.Items {
		if it.ID == "l2" {
			t.Fatal("unapproved venue leaked into discovery output")
		}
	}
}

func TestHTTP_EndToEnd_ReservationRejectedLocally(t *testing.T) {
	reg := &fakeRegistry{recs: []domain.VenueRecord{{
		ID: "l1", Name: "El Sótano", Approved: true,
		ScheduleOpen: pstr("18:00:00"), ScheduleClose: pstr("02:30:00"),
	}}}
	store := &fakeStore{}
	ts := newServer(reg, &fakeSearcher{}, store)
	defer ts.Close()

	payload, _ := json.Marshal(map[string]any{
		"venue_id": "l1", "user_id": "u1",
		"date": "2020-01-01", "time": "22:00", "party_size": 2,
	})
	res, err := http.Post(ts.URL+"/v1/reservations", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", res.StatusCode)
	}

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Errors["date"] == "" {
		t.Fatalf("expected a date field error, got %v", body.Errors)
	}
}

func TestHTTP_EndToEnd_ReservationVenueMissing(t *testing.T) {
	ts := newServer(&fakeRegistry{}, &fakeSearcher{}, &fakeStore{})
	defer ts.Close()

	payload, _ := json.Marshal(map[string]any{
		"venue_id": "ghost", "user_id": "u1",
		"date": "2030-01-01", "time": "22:00", "party_size": 2,
	})
	res, err := http.Post(ts.URL+"/v1/reservations", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", res.StatusCode)
	}
}
