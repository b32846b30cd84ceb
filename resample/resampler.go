// Package resample turns an irregular (time, value) curve into one value per
// calendar period.
//
// Sample i carries the value in effect over (times[i-1], times[i]]. The
// reported time steps are the calendar period starts that fall inside
// [times[0], times[last]]; each one closes a bucket that opens at the
// previous time step, or at times[0] for the first bucket.
//
// A Resampler caches the last input and the last output and is not safe for
// concurrent use.
package resample

import (
	"curvedb/calendar"
	"curvedb/window"
	"errors"
	"fmt"
)

var ErrLengthMismatch = errors.New("times and values differ in length")

// Bucket is the half-open interval (Start, End] summarized by one output value.
type Bucket struct {
	Start int64
	End   int64
}

func (bucket Bucket) Seconds() int64 {
	return bucket.End - bucket.Start
}

type Resampler struct {
	cal    calendar.Calendar
	times  []int64
	values []float64

	timeSteps       []int64
	resampledValues []float64
	buckets         []Bucket
}

func NewResampler() *Resampler {
	return NewResamplerWithCalendar(calendar.NewGregorian())
}

func NewResamplerWithCalendar(cal calendar.Calendar) *Resampler {
	return &Resampler{
		cal:             cal,
		times:           make([]int64, 0),
		values:          make([]float64, 0),
		timeSteps:       make([]int64, 0),
		resampledValues: make([]float64, 0),
		buckets:         make([]Bucket, 0),
	}
}

// SetCurveData replaces the input curve. The slices are copied; unordered
// input is stable-sorted and repeated timestamps keep their last value.
func (resampler *Resampler) SetCurveData(values []float64, times []int64) error {
	if len(values) != len(times) {
		return fmt.Errorf("%w: %d values, %d times", ErrLengthMismatch, len(values), len(times))
	}
	resampler.times, resampler.values = normalizeSeries(values, times)
	resampler.resetOutput(0)
	return nil
}

func (resampler *Resampler) resetOutput(capacity int) {
	resampler.timeSteps = make([]int64, 0, capacity)
	resampler.resampledValues = make([]float64, 0, capacity)
	resampler.buckets = make([]Bucket, 0, capacity)
}

func (resampler *Resampler) boundaries(kind calendar.PeriodKind) ([]int64, error) {
	windowing, err := window.NewCalendarWindowing(resampler.cal, kind)
	if err != nil {
		return nil, err
	}
	if len(resampler.times) == 0 {
		return make([]int64, 0), nil
	}
	first := resampler.times[0]
	last := resampler.times[len(resampler.times)-1]
	return windowing.BoundariesCovering(first, last), nil
}

func (resampler *Resampler) setOutput(boundaries []int64, values []float64) {
	resampler.timeSteps = boundaries
	resampler.resampledValues = values
	resampler.buckets = make([]Bucket, len(boundaries))
	start := int64(0)
	if len(resampler.times) > 0 {
		start = resampler.times[0]
	}
	for i, end := range boundaries {
		resampler.buckets[i] = Bucket{Start: start, End: end}
		start = end
	}
}

func (resampler *Resampler) ResampledTimeSteps() []int64 {
	return resampler.timeSteps
}

func (resampler *Resampler) ResampledValues() []float64 {
	return resampler.resampledValues
}

func (resampler *Resampler) Buckets() []Bucket {
	return resampler.buckets
}

// TimeSteps and Values return the normalized input curve.
func (resampler *Resampler) TimeSteps() []int64 {
	return resampler.times
}

func (resampler *Resampler) Values() []float64 {
	return resampler.values
}

func (resampler *Resampler) Len() int {
	return len(resampler.times)
}
