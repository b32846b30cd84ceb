/*
* Copyright 2020 Dheeraj R. Reddy.
*
* Copyright 2016 Samsung Research America. All rights reserved.
*
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You may obtain a copy of the License at
*
*     http://www.apache.org/licenses/LICENSE-2.0
*
* This file has been modified by Dheeraj R. Reddy by being re-written
* in Golang.
 */

package window

import "curvedb/calendar"

type BoundarySequence interface {
	NextBoundary() int64
	Kind() calendar.PeriodKind
	Equals(other BoundarySequence) bool
}

// start, advance(start), advance(advance(start)), ...
// where start is the period start at or before the origin.
type CalendarSequence struct {
	cal  calendar.Calendar
	kind calendar.PeriodKind
	next int64
}

func NewBoundarySequence(
	cal calendar.Calendar,
	kind calendar.PeriodKind,
	origin int64) *CalendarSequence {
	return &CalendarSequence{
		cal:  cal,
		kind: kind,
		next: cal.PeriodStart(origin, kind),
	}
}

func (seq *CalendarSequence) NextBoundary() int64 {
	prev := seq.next
	seq.next = seq.cal.Advance(prev, seq.kind)
	return prev
}

// Peek returns the boundary the next call to NextBoundary will produce.
func (seq *CalendarSequence) Peek() int64 {
	return seq.next
}

func (seq *CalendarSequence) Kind() calendar.PeriodKind {
	return seq.kind
}

func (seq *CalendarSequence) Equals(other BoundarySequence) bool {
	switch cs := other.(type) {
	case *CalendarSequence:
		return seq.kind == cs.kind && seq.next == cs.next
	default:
		return false
	}
}
