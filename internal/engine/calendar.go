package engine

import "time"

// Epoch is the calendar date of day 0.
var Epoch = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateLabel returns a human-readable calendar date for a simulation day.
func DateLabel(daysElapsed int) string {
	return Epoch.AddDate(0, 0, daysElapsed).Format("Jan 2 2006")
}
