package shared

import "time"

// shared types across the application
// 1st: clock used by the lending rules so "today" can be pinned in tests
// 2nd: auth claims structure for JWT authentication in HTTP API

// Clock returns the current instant
type Clock func() time.Time

// DateOf truncates t to midnight in loc. Due and expiration dates are calendar dates,
// compared in the library's local zone.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AddDays adds whole calendar days to a date, ignoring DST shifts
func AddDays(date time.Time, period time.Duration) time.Time {
	days := int(period / (24 * time.Hour))
	return date.AddDate(0, 0, days)
}

// DateBefore compares two dates by calendar day, each read in its own zone. Dates read
// back from a DATE column come in UTC while "today" is in the library's zone.
func DateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

type AuthClaims struct {
	UserID string `json:"user_id"` // user identifier(UUID)
	Role   string `json:"role"`    // "member" or "librarian"
}
