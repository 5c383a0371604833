// Package countdown computes the time left until a holiday and renders the
// announcement for it.
package countdown

import (
	"fmt"
	"time"

	"feriadobot/internal/holiday/models"
)

const day = 24 * time.Hour

// Remaining returns the time from now until midnight of target in now's
// location, split into whole days, hours and minutes. Seconds are truncated.
// A target that is today yields a zero countdown even past midnight.
func Remaining(target models.Date, now time.Time) models.Countdown {
	d := target.Midnight(now.Location()).Sub(now)
	if d < 0 {
		d = 0
	}
	days := d / day
	d -= days * day
	hours := d / time.Hour
	d -= hours * time.Hour
	return models.Countdown{
		Days:    int(days),
		Hours:   int(hours),
		Minutes: int(d / time.Minute),
	}
}

// Render builds the announcement text. The shape depends only on c.Days:
// 0 is the day itself, 1 is tomorrow, anything else is a full countdown.
func Render(r models.Record, c models.Countdown) string {
	switch c.Days {
	case 0:
		return fmt.Sprintf("🎉 ¡HOY ES %s!\n\n¡A disfrutar el día! 🇦🇷", r.Name)
	case 1:
		return fmt.Sprintf("⏰ ¡MAÑANA ES FERIADO!\n\n📅 %s (%s)\n\n⏳ Faltan %dh %dmin",
			r.Name, r.Date.DayMonth(), c.Hours, c.Minutes)
	default:
		return fmt.Sprintf("📆 Próximo feriado: %s (%s)\n\n⏳ Faltan %d días, %dh %dmin",
			r.Name, r.Date.DayMonth(), c.Days, c.Hours, c.Minutes)
	}
}

// NoUpcoming is printed when every holiday of the year has passed.
const NoUpcoming = "No hay más feriados este año."
