package resample

import (
	"curvedb/calendar"
	"curvedb/stats"
)

type weightedMeanFold struct {
	values []float64

	// current is the value over (sweep, next sample].
	current     float64
	sweep       int64
	lastInstant int64
	lastValue   float64
	seenSample  bool
	accum       *stats.TimeWeighted
}

func newWeightedMeanFold(times []int64, values []float64) *weightedMeanFold {
	return &weightedMeanFold{
		values:  values,
		current: values[0],
		sweep:   times[0],
		accum:   stats.NewTimeWeighted(),
	}
}

func (fold *weightedMeanFold) onSample(index int, t int64) {
	fold.accum.Add(fold.current, t-fold.sweep)
	fold.sweep = t
	fold.lastInstant = t
	fold.lastValue = fold.values[index]
	fold.seenSample = true
	if index+1 < len(fold.values) {
		fold.current = fold.values[index+1]
	}
}

func (fold *weightedMeanFold) onBoundary(b int64) float64 {
	fold.accum.Add(fold.current, b-fold.sweep)
	if b > fold.sweep {
		fold.sweep = b
	}

	// Samples cover the bucket since the previous boundary without gaps, so
	// the accumulated seconds are the bucket's calendar length.
	var value float64
	if !fold.accum.Empty() {
		value = fold.accum.Mean(fold.accum.Seconds())
	} else if fold.seenSample && fold.lastInstant == b {
		value = fold.lastValue
	} else {
		value = fold.current
	}

	fold.accum.Reset()
	return value
}

// ResampleAndComputeWeightedMeanValues sets one time-weighted mean per
// period: sum(value * seconds) / bucket seconds. A zero-length bucket (the
// first sample sitting exactly on a period start) reports the value at that
// instant.
func (resampler *Resampler) ResampleAndComputeWeightedMeanValues(kind calendar.PeriodKind) error {
	resampler.resetOutput(0)
	boundaries, err := resampler.boundaries(kind)
	if err != nil {
		return err
	}
	if len(boundaries) == 0 {
		return nil
	}

	values := make([]float64, len(boundaries))
	fold := newWeightedMeanFold(resampler.times, resampler.values)
	stream := newEventStream(resampler.times, boundaries)
	for ev, ok := stream.Next(); ok; ev, ok = stream.Next() {
		switch ev.kind {
		case sampleEvent:
			fold.onSample(ev.index, ev.time)
		case boundaryEvent:
			values[ev.index] = fold.onBoundary(ev.time)
		}
	}

	resampler.setOutput(boundaries, values)
	return nil
}
