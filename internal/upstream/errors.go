package upstream

import (
	"errors"
	"fmt"
	"net/url"
)

var ErrNoGeocodeMatch = errors.New("no geocode match")

// GeocodeError reports a failed address lookup.
type GeocodeError struct {
	Address string
	Status  int // 0 when the provider answered successfully or was unreachable
	Err     error
}

func (e *GeocodeError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("geocode %q: upstream status %d: %v", e.Address, e.Status, e.Err)
	}
	return fmt.Sprintf("geocode %q: %v", e.Address, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// IsochroneError reports a failed isochrone request. Body holds the start
// of the provider's error response when there was one.
type IsochroneError struct {
	Mode   string
	Status int
	Body   string
	Err    error
}

func (e *IsochroneError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("isochrone %q: upstream status %d: %s", e.Mode, e.Status, e.Body)
	}
	return fmt.Sprintf("isochrone %q: %v", e.Mode, e.Err)
}

func (e *IsochroneError) Unwrap() error { return e.Err }

// stripURL drops the *url.Error wrapper from client errors so request URLs,
// which carry api keys in the query string, never reach logs or responses.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s request: %w", ue.Op, ue.Err)
	}
	return err
}
