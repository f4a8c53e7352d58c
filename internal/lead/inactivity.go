package lead

import "time"

// DefaultTimezone is the app timezone used for day arithmetic.
const DefaultTimezone = "Asia/Bangkok"

// AppLocation resolves a timezone name, falling back to Asia/Bangkok and
// finally UTC when the zone database has neither.
func AppLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// DayKey formats a date as DD-MM-YYYY, the daily tab naming scheme.
func DayKey(t time.Time) string {
	return t.Format("02-01-2006")
}

// MonthKey formats a date as MM-YYYY, used in month file titles.
func MonthKey(t time.Time) string {
	return t.Format("01-2006")
}

// InactiveDays returns whole days since the lead's last activity, in loc.
// LastLogin is preferred, LastSeen is the fallback; -1 when both are nil.
func (r Row) InactiveDays(now time.Time, loc *time.Location) int {
	base := r.LastLogin
	if base == nil {
		base = r.LastSeen
	}
	if base == nil {
		return -1
	}
	y1, m1, d1 := base.In(loc).Date()
	y2, m2, d2 := now.In(loc).Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
