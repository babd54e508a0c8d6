// Package geocode wraps the forward-geocoding provider. Discovery treats any
// failure here as a signal to synthesize a coordinate, so the client makes a
// single attempt per lookup instead of retrying.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"nightspot/internal/adapters/observability"
	"nightspot/internal/domain"
)

var ErrNoResult = errors.New("geocode: no result")

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 10 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Coordinate{}, err
	}

	q := url.Values{}
	q.Set("address", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/geocode?"+q.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "nightspot/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("geocode", "geocode", 0, time.Since(start))
		return domain.Coordinate{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("geocode", "geocode", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.Coordinate{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		Results []struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Coordinate{}, err
	}
	if len(out.Results) == 0 {
		return domain.Coordinate{}, ErrNoResult
	}
	return domain.Coordinate{Lat: out.Results[0].Lat, Lng: out.Results[0].Lng}, nil
}
