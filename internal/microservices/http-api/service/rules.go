package service

import (
	"time"

	"lendinghub/internal/config"
	"lendinghub/internal/shared"
)

// Rules are the lending periods and the calendar they are counted in
type Rules struct {
	LoanPeriod      time.Duration
	RenewalPeriod   time.Duration
	HoldGracePeriod time.Duration
	Location        *time.Location
	Clock           shared.Clock
}

// NewRules reads the periods and the timezone from the configuration
func NewRules(cfg *config.Config) (Rules, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Rules{}, err
	}
	return Rules{
		LoanPeriod:      cfg.LoanPeriod,
		RenewalPeriod:   cfg.RenewalPeriod,
		HoldGracePeriod: cfg.HoldGracePeriod,
		Location:        loc,
		Clock:           time.Now,
	}, nil
}

func (r Rules) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock()
}

// Today is the current calendar date in the library's zone
func (r Rules) Today() time.Time {
	return shared.DateOf(r.now(), r.Location)
}

func (r Rules) loanDueDate() time.Time {
	return shared.AddDays(r.Today(), r.LoanPeriod)
}

func (r Rules) holdExpirationDate() time.Time {
	return shared.AddDays(r.Today(), r.HoldGracePeriod)
}

// renewedDueDate extends from the current effective due date, not from today
func (r Rules) renewedDueDate(current time.Time) time.Time {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	y, m, d := current.Date()
	return shared.AddDays(time.Date(y, m, d, 0, 0, 0, 0, loc), r.RenewalPeriod)
}
