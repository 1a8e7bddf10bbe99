package providers

import (
	"fmt"
	"time"
)

// TimezoneResolutionError reports an unknown IANA timezone identifier.
type TimezoneResolutionError struct {
	Name string
	Err  error
}

func (e *TimezoneResolutionError) Error() string {
	return fmt.Sprintf("resolve timezone %q: %v", e.Name, e.Err)
}

func (e *TimezoneResolutionError) Unwrap() error {
	return e.Err
}

// ResolveTimezone returns the location for a tz string. An empty name resolves to UTC.
func ResolveTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &TimezoneResolutionError{Name: name, Err: err}
	}
	return loc, nil
}
