package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation marks errors caused by the caller's input.
	ErrValidation = errors.New("validation failed")

	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownBudget      = errors.New("unknown budget")
	ErrInvalidDate        = errors.New("invalid date")
	ErrNextServiceMileage = errors.New("next service mileage must be above the current mileage")
	ErrAlreadyCompleted   = errors.New("reminder already completed")
	ErrMissingID          = errors.New("missing id")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// Clock returns the current time.
type Clock func() time.Time

type options struct {
	now Clock
	loc *time.Location
}

// Option configures the services of this package.
type Option func(*options)

// WithClock pins the time source, mostly for tests.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.now = c
		}
	}
}

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// current returns now in the configured location.
func (o options) current() time.Time {
	return o.now().In(o.loc)
}
