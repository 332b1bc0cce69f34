// Package daterange rolls a date range back through previous years.
package daterange

import (
	"time"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

// Roll returns count windows (at least one) with the shape of r, most recent
// first. The first window is the latest one whose end is strictly before
// reference; each following window starts one calendar year earlier than the
// previous one. Every window spans exactly r.Days() days, even across leap
// years.
//
// Feb 29 moved into a non-leap year becomes Feb 28. Shifts are applied to the
// previous window, so a Feb 28 produced this way stays Feb 28.
func Roll(r model.DateRange, reference time.Time, count int) []model.DateRange {
	if count < 1 {
		count = 1
	}
	ref := model.Day(reference)
	days := r.Days()

	start := withYear(model.Day(r.Start), ref.Year())
	end := start.AddDate(0, 0, days)
	for !ref.After(end) {
		start = withYear(start, start.Year()-1)
		end = start.AddDate(0, 0, days)
	}

	out := make([]model.DateRange, 0, count)
	for range count {
		out = append(out, model.DateRange{Start: start, End: end})
		start = withYear(start, start.Year()-1)
		end = start.AddDate(0, 0, days)
	}
	return out
}

func withYear(d time.Time, year int) time.Time {
	_, m, day := d.Date()
	if m == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, m, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}
