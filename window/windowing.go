package window

import "curvedb/calendar"

type Windowing interface {
	// Return the boundaries b, ascending, such that t0 <= b <= t1.
	BoundariesCovering(t0, t1 int64) []int64

	// Return the boundary at or before t that opens the first window.
	FirstWindowStart(t int64) int64

	Kind() calendar.PeriodKind
}
