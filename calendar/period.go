package calendar

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPeriod = errors.New("unknown period kind")

// PeriodKind is the calendar granularity used to generate bucket boundaries.
type PeriodKind int

const (
	Day PeriodKind = iota
	Week
	Month
	Quarter
	HalfYear
	Year
	Decade
)

var periodNames = map[PeriodKind]string{
	Day:      "day",
	Week:     "week",
	Month:    "month",
	Quarter:  "quarter",
	HalfYear: "halfyear",
	Year:     "year",
	Decade:   "decade",
}

func (kind PeriodKind) Valid() bool {
	_, ok := periodNames[kind]
	return ok
}

func (kind PeriodKind) String() string {
	name, ok := periodNames[kind]
	if !ok {
		return fmt.Sprintf("PeriodKind(%d)", int(kind))
	}
	return name
}

func ParsePeriodKind(name string) (PeriodKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "half-year" {
		normalized = "halfyear"
	}
	for kind, kindName := range periodNames {
		if kindName == normalized {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, name)
}

// Kinds returns every supported period kind, shortest first.
func Kinds() []PeriodKind {
	return []PeriodKind{Day, Week, Month, Quarter, HalfYear, Year, Decade}
}
