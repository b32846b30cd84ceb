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

import (
	"curvedb/calendar"
	"fmt"
)

var _ Windowing = (*CalendarWindowing)(nil)

type CalendarWindowing struct {
	cal       calendar.Calendar
	kind      calendar.PeriodKind
	seq       *CalendarSequence
	markers   []int64
	lastStart int64
}

func NewCalendarWindowing(cal calendar.Calendar, kind calendar.PeriodKind) (*CalendarWindowing, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("windowing: %w: %d", calendar.ErrUnknownPeriod, int(kind))
	}
	return &CalendarWindowing{
		cal:  cal,
		kind: kind,
	}, nil
}

func (cwin *CalendarWindowing) Kind() calendar.PeriodKind {
	return cwin.kind
}

func (cwin *CalendarWindowing) reset(origin int64) {
	cwin.seq = NewBoundarySequence(cwin.cal, cwin.kind, origin)
	cwin.markers = cwin.markers[:0]
	cwin.lastStart = cwin.seq.NextBoundary()
}

func (cwin *CalendarWindowing) addWindow() {
	cwin.markers = append(cwin.markers, cwin.lastStart)
	cwin.lastStart = cwin.seq.NextBoundary()
}

// Add windows until the next window start is past the target marker.
func (cwin *CalendarWindowing) addWindowsPastMarker(targetMarker int64) {
	for cwin.lastStart <= targetMarker {
		cwin.addWindow()
	}
}

func (cwin *CalendarWindowing) FirstWindowStart(t int64) int64 {
	return cwin.cal.PeriodStart(t, cwin.kind)
}

func (cwin *CalendarWindowing) BoundariesCovering(t0, t1 int64) []int64 {
	if t1 < t0 {
		return make([]int64, 0)
	}

	cwin.reset(t0)
	if cwin.lastStart < t0 {
		// The period start before t0 only opens the first window; it is never
		// reported.
		cwin.lastStart = cwin.seq.NextBoundary()
	}
	cwin.addWindowsPastMarker(t1)

	boundaries := make([]int64, len(cwin.markers))
	copy(boundaries, cwin.markers)
	return boundaries
}

// TimeStepsFromTimeRange returns the period boundaries inside [minTime, maxTime].
func TimeStepsFromTimeRange(
	cal calendar.Calendar,
	kind calendar.PeriodKind,
	minTime int64,
	maxTime int64) ([]int64, error) {
	cwin, err := NewCalendarWindowing(cal, kind)
	if err != nil {
		return nil, err
	}
	return cwin.BoundariesCovering(minTime, maxTime), nil
}
