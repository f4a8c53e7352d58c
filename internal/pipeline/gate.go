package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
)

// gate decides whether the run date is a no-run day. Weekends are skipped
// unless INCLUDE_WEEKENDS is set; holiday dates come from the config store.
// A store failure logs and lets the run proceed — a broken holiday tab must
// not silence the pipeline.
func (d *Deps) gate(ctx context.Context, runAt time.Time, loc *time.Location) (reason string, skip bool) {
	day := runAt.In(loc)

	if !d.Config.IncludeWeekends {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return "weekend", true
		}
	}

	holidays, err := d.Store.Holidays(ctx)
	if err != nil {
		d.Logger.Warn("Holiday lookup failed, proceeding", "error", err)
		return "", false
	}
	// Holidays are stored as plain dates; compare calendar dates as-is.
	for _, h := range holidays {
		if sameDate(h, day) {
			return "holiday", true
		}
	}
	return "", false
}

// sameDate compares calendar dates ignoring time of day.
func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func skippedResult(tier, reason string, runAt time.Time) RunResult {
	return RunResult{
		ID:         uuid.New(),
		Tier:       tier,
		TabName:    lead.DayKey(runAt),
		Skipped:    true,
		SkipReason: reason,
		Finished:   runAt,
	}
}
