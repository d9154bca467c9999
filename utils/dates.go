// utils/dates.go
package utils

import "time"

// CalendarDate drops the clock part of t, keeping the day as seen in t's location.
func CalendarDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ISODate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// MonthLabel is the short label used by the revenue chart ("Jan".."Dec").
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// YearBounds returns [Jan 1 of year, Jan 1 of year+1) in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
