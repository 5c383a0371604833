// Package upcoming picks the next holiday out of a year's list.
package upcoming

import (
	"time"

	"feriadobot/internal/holiday/models"
)

// Select returns the holiday with the earliest date on or after today, where
// today is the calendar date of now in now's location. Time of day never
// excludes today's holiday.
//
// The whole list is scanned because the source does not guarantee order. Equal
// dates resolve to the first one in input order. The slice is not modified.
func Select(records []models.Record, now time.Time) (models.Record, bool) {
	today := models.DateOf(now)

	var (
		best  models.Record
		found bool
	)
	for _, r := range records {
		if r.Date.Before(today) {
			continue
		}
		if !found || r.Date.Before(best.Date) {
			best = r
			found = true
		}
	}
	return best, found
}
