// Package resstore submits reservation requests to the reservation backend.
// The backend answers rejections with human-oriented error text; that text is
// returned verbatim so the application layer can classify it.
package resstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nightspot/internal/adapters/observability"
	"nightspot/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
}

func New(base, key string) *Client {
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 15 * time.Second},
		key:  key,
	}
}

// wire payload per the backend contract: status is a boolean where false
// means pending, and the tolerance window travels as "HH:MM:SS".
type createPayload struct {
	UserID          string  `json:"userId"`
	VenueID         string  `json:"venueId"`
	RequestedAt     string  `json:"requestedAt"`
	ToleranceWindow string  `json:"toleranceWindow"`
	PartySize       int     `json:"partySize"`
	Status          bool    `json:"status"`
	CreatedAt       string  `json:"createdAt"`
	RejectionReason *string `json:"rejectionReason"`
}

func (c *Client) CreateReservation(ctx context.Context, r domain.ReservationRequest) error {
	p := createPayload{
		UserID:          r.UserID,
		VenueID:         r.VenueID,
		RequestedAt:     r.RequestedAt.Format(time.RFC3339),
		ToleranceWindow: formatDuration(r.ToleranceWindow),
		PartySize:       r.PartySize,
		Status:          r.Status != domain.StatusPending,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		RejectionReason: r.RejectionReason,
	}
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/reservations", bytes.NewReader(body))
	if err != nil {
		return err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("resstore", "create", 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("resstore", "create", resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	// surface the backend's message untouched; classification happens upstream
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if msg := extractMessage(b); msg != "" {
		return errors.New(msg)
	}
	return fmt.Errorf("reservation backend returned %d", resp.StatusCode)
}

// extractMessage pulls a message out of either {"message": "..."} or a plain
// text body.
func extractMessage(b []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(b))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
