// utils/dates.go
package utils

import "time"

// BeginningOfDay truncates t to midnight in UTC.
func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(BeginningOfDay(end).Sub(BeginningOfDay(start)).Hours() / 24)
}
