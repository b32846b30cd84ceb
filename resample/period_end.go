package resample

import "curvedb/calendar"

type periodEndFold struct {
	times  []int64
	values []float64
	out    []float64

	prev    int
	pending []int
}

func newPeriodEndFold(times []int64, values []float64, out []float64) *periodEndFold {
	return &periodEndFold{
		times:   times,
		values:  values,
		out:     out,
		prev:    -1,
		pending: make([]int, 0),
	}
}

func (fold *periodEndFold) interpolate(i, j int, b int64) float64 {
	ti, tj := fold.times[i], fold.times[j]
	vi, vj := fold.values[i], fold.values[j]
	return vi + (vj-vi)*float64(b-ti)/float64(tj-ti)
}

func (fold *periodEndFold) onSample(index int, boundaries []int64) {
	for _, bi := range fold.pending {
		if fold.prev < 0 {
			fold.out[bi] = fold.values[index]
			continue
		}
		fold.out[bi] = fold.interpolate(fold.prev, index, boundaries[bi])
	}
	fold.pending = fold.pending[:0]
	fold.prev = index
}

func (fold *periodEndFold) onBoundary(index int, b int64) {
	if fold.prev >= 0 && fold.times[fold.prev] == b {
		fold.out[index] = fold.values[fold.prev]
		return
	}
	fold.pending = append(fold.pending, index)
}

// Boundaries past the last sample clamp to its value.
func (fold *periodEndFold) finish() {
	for _, bi := range fold.pending {
		fold.out[bi] = fold.values[len(fold.values)-1]
	}
	fold.pending = fold.pending[:0]
}

// ResampleAndComputePeriodEndValues sets, for every period start inside the
// curve, the curve value linearly interpolated at that instant. A curve that
// collapses to a single instant off the period grid still yields one reading
// at that instant.
func (resampler *Resampler) ResampleAndComputePeriodEndValues(kind calendar.PeriodKind) error {
	resampler.resetOutput(0)
	boundaries, err := resampler.boundaries(kind)
	if err != nil {
		return err
	}
	if len(boundaries) == 0 {
		if len(resampler.times) == 1 {
			resampler.setOutput(
				[]int64{resampler.times[0]},
				[]float64{resampler.values[0]})
		}
		return nil
	}

	values := make([]float64, len(boundaries))
	fold := newPeriodEndFold(resampler.times, resampler.values, values)
	stream := newEventStream(resampler.times, boundaries)
	for ev, ok := stream.Next(); ok; ev, ok = stream.Next() {
		switch ev.kind {
		case sampleEvent:
			fold.onSample(ev.index, boundaries)
		case boundaryEvent:
			fold.onBoundary(ev.index, ev.time)
		}
	}
	fold.finish()

	resampler.setOutput(boundaries, values)
	return nil
}
