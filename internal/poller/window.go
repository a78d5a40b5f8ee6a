package poller

import (
	"slices"
	"time"
)

// Window is the time-of-day gate of the poll loop: a fetch is only attempted when the
// clock, read in Location, is at Hour and one of Minutes.
type Window struct {
	Location *time.Location
	Hour     int
	Minutes  []int
}

func (w Window) in(t time.Time) time.Time {
	if w.Location == nil {
		return t
	}
	return t.In(w.Location)
}

// MinuteInWindow reports whether the minute of t is one of the window minutes. The hour
// is not considered, leaving the window is decided on the minute alone.
func (w Window) MinuteInWindow(t time.Time) bool {
	return slices.Contains(w.Minutes, w.in(t).Minute())
}

// Open reports whether t falls inside the window, ignoring the debounce flag.
func (w Window) Open(t time.Time) bool {
	return w.in(t).Hour() == w.Hour && w.MinuteInWindow(t)
}

// Eligible is the gate: inside the window and not yet queried during it.
func (w Window) Eligible(t time.Time, queriedThisWindow bool) bool {
	return !queriedThisWindow && w.Open(t)
}

// Next returns the next n minute marks at or after `after` where the window is open.
func (w Window) Next(after time.Time, n int) []time.Time {
	if n <= 0 || len(w.Minutes) == 0 {
		return nil
	}

	minutes := slices.Clone(w.Minutes)
	slices.Sort(minutes)
	minutes = slices.Compact(minutes)

	local := w.in(after)
	var out []time.Time
	for day := 0; len(out) < n; day++ {
		date := local.AddDate(0, 0, day)
		for _, m := range minutes {
			candidate := time.Date(date.Year(), date.Month(), date.Day(), w.Hour, m, 0, 0, local.Location())
			if candidate.Before(local.Truncate(time.Minute)) {
				continue
			}
			out = append(out, candidate)
			if len(out) == n {
				break
			}
		}
	}
	return out
}
