package calendar

import "time"

// Calendar computes period boundaries on epoch seconds.
//
// Implementations must be pure and consistent with each other:
// PeriodStart(Advance(PeriodStart(t, p), p), p) == Advance(PeriodStart(t, p), p).
type Calendar interface {
	// Floor t to the start of its enclosing period.
	PeriodStart(t int64, kind PeriodKind) int64
	// Add one calendar unit of kind to t.
	Advance(t int64, kind PeriodKind) int64
}

// Gregorian is the proleptic Gregorian calendar evaluated in UTC.
type Gregorian struct{}

func NewGregorian() *Gregorian {
	return &Gregorian{}
}

func toTime(t int64) time.Time {
	return time.Unix(t, 0).UTC()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (gregorian *Gregorian) PeriodStart(t int64, kind PeriodKind) int64 {
	tm := toTime(t)
	year, month, day := tm.Date()

	var start time.Time
	switch kind {
	case Day:
		start = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	case Week:
		// ISO weeks start on Monday.
		offset := (int(tm.Weekday()) + 6) % 7
		start = time.Date(year, month, day-offset, 0, 0, 0, 0, time.UTC)
	case Month:
		start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	case Quarter:
		firstMonth := time.Month(3*((int(month)-1)/3) + 1)
		start = time.Date(year, firstMonth, 1, 0, 0, 0, 0, time.UTC)
	case HalfYear:
		firstMonth := time.Month(6*((int(month)-1)/6) + 1)
		start = time.Date(year, firstMonth, 1, 0, 0, 0, 0, time.UTC)
	case Year:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	case Decade:
		start = time.Date(10*floorDiv(year, 10), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		panic(ErrUnknownPeriod)
	}
	return start.Unix()
}

func (gregorian *Gregorian) Advance(t int64, kind PeriodKind) int64 {
	tm := toTime(t)

	var next time.Time
	switch kind {
	case Day:
		next = tm.AddDate(0, 0, 1)
	case Week:
		next = tm.AddDate(0, 0, 7)
	case Month:
		next = tm.AddDate(0, 1, 0)
	case Quarter:
		next = tm.AddDate(0, 3, 0)
	case HalfYear:
		next = tm.AddDate(0, 6, 0)
	case Year:
		next = tm.AddDate(1, 0, 0)
	case Decade:
		next = tm.AddDate(10, 0, 0)
	default:
		panic(ErrUnknownPeriod)
	}
	return next.Unix()
}
