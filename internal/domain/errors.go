package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound: a single venue lookup missed.
	ErrNotFound = errors.New("not found")
	// ErrLocalSource: the registry fetch failed; fatal to the discovery call.
	ErrLocalSource = errors.New("local source unavailable")
	// ErrExternalSource: the provider fetch failed; contribution becomes empty.
	ErrExternalSource = errors.New("external source unavailable")
	// ErrGeocode: lookup failed; resolver falls back to a synthesized coordinate.
	ErrGeocode = errors.New("geocoding failed")
)

// FieldErrors collects per-field validation failures. All checks run; nothing
// short-circuits, so callers can report every problem at once.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}
