// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"nightspot/internal/app"
	"nightspot/internal/domain"
	"nightspot/internal/geo"
)

type Handlers struct {
	Discovery    *app.DiscoveryService
	Reservations *app.ReservationService
	Registry     domain.VenueRegistry
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/venues", h.listVenues)
	s.mux.Post("/v1/reservations", h.createReservation)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemErrors(w, status, title, detail, nil)
}

func writeProblemErrors(w http.ResponseWriter, status int, title, detail string, fieldErrs map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fieldErrs}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) listVenues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid location", "lat and lng must be numbers")
		return
	}
	origin := domain.Coordinate{Lat: lat, Lng: lng}

	radius := 1500
	if rs := q.Get("radius"); rs != "" {
		n, err := strconv.Atoi(rs)
		if err != nil || n <= 0 || n > 50000 {
			writeProblem(w, http.StatusBadRequest, "Invalid radius", "radius must be an integer between 1 and 50000")
			return
		}
		radius = n
	}

	includeExternal := q.Get("external") != "false"

	var filters app.Filters
	if cs := q.Get("category"); cs != "" {
		n, err := strconv.Atoi(cs)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid category", "category must be an integer")
			return
		}
		filters.Category = &n
	}
	filters.SearchText = q.Get("q")
	if gs := q.Get("genres"); gs != "" {
		filters.Genres = strings.Split(gs, ",")
	}

	order := app.SortOrder(q.Get("sort"))
	switch order {
	case "", app.SortName:
		order = app.SortName
	case app.SortRating, app.SortDistance:
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid sort", "sort must be one of name, rating, distance")
		return
	}

	page := 1
	if ps := q.Get("page"); ps != "" {
		n, err := strconv.Atoi(ps)
		if err != nil || n < 1 {
			writeProblem(w, http.StatusBadRequest, "Invalid page", "page must be a positive integer")
			return
		}
		page = n
	}

	places, err := h.Discovery.Discover(r.Context(), origin, radius, includeExternal)
	if err != nil {
		// registry down: the one fatal discovery failure; the client may retry
		writeProblem(w, http.StatusBadGateway, "Discovery unavailable", "venue registry is unreachable, try again")
		return
	}

	result := app.Browse(places, filters, order, &origin, page)
	resp := venuesResponse{
		Items:      make([]venueItem, len(result.Items)),
		Page:       result.Number,
		TotalPages: result.TotalPages,
		TotalItems: result.TotalItems,
		Window:     result.Window,
	}
	for i, p := range result.Items {
		m := geo.Distance(origin, p.Coord)
		resp.Items[i] = venueItem{Place: p, DistanceMeters: m, Distance: geo.FormatDistance(m)}
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listVenues body")
	}
}

type venueItem struct {
	domain.Place
	DistanceMeters float64 `json:"distance_m"`
	Distance       string  `json:"distance"`
}

type venuesResponse struct {
	Items      []venueItem    `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalItems int            `json:"total_items"`
	Window     []app.PageMark `json:"window"`
}

type createReservationBody struct {
	VenueID   string `json:"venue_id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	PartySize int    `json:"party_size"`
}

func (h *Handlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var body createReservationBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be JSON")
		return
	}
	if body.VenueID == "" || body.UserID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "venue_id and user_id are required")
		return
	}

	rec, err := h.Registry.GetVenue(r.Context(), body.VenueID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "venue not found")
			return
		}
		writeProblem(w, http.StatusBadGateway, "Registry unavailable", "venue registry is unreachable, try again")
		return
	}
	venue := venueForValidation(rec)

	req, err := h.Reservations.Submit(r.Context(), venue, app.ReservationInput{
		VenueID:   body.VenueID,
		UserID:    body.UserID,
		Date:      body.Date,
		Time:      body.Time,
		PartySize: body.PartySize,
	})
	if err != nil {
		var fieldErrs domain.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeProblemErrors(w, http.StatusUnprocessableEntity, "Validation failed", "one or more fields are invalid", fieldErrs)
			return
		}
		var remote *app.RemoteError
		if errors.As(err, &remote) {
			writeProblem(w, http.StatusConflict, "Reservation rejected", remote.Msg)
			return
		}
		writeProblem(w, http.StatusBadGateway, "Reservation backend unavailable", "try again")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(req); err != nil {
		log.Error().Err(err).Msg("failed to write createReservation body")
	}
}

// venueForValidation lifts the registry row into the Place shape the
// validator works on. Coordinates are irrelevant here.
func venueForValidation(rec domain.VenueRecord) domain.Place {
	p := domain.Place{
		ID:       rec.ID,
		Name:     rec.Name,
		Source:   domain.SourceLocal,
		Capacity: rec.Capacity,
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
