package resample

import "sort"

type sample struct {
	time  int64
	value float64
}

func normalizeSeries(values []float64, times []int64) ([]int64, []float64) {
	samples := make([]sample, len(times))
	for i := range times {
		samples[i] = sample{time: times[i], value: values[i]}
	}

	less := func(i, j int) bool {
		return samples[i].time < samples[j].time
	}
	if !sort.SliceIsSorted(samples, less) {
		sort.SliceStable(samples, less)
	}

	sortedTimes := make([]int64, 0, len(samples))
	sortedValues := make([]float64, 0, len(samples))
	for _, s := range samples {
		n := len(sortedTimes)
		if n > 0 && sortedTimes[n-1] == s.time {
			// last write wins
			sortedValues[n-1] = s.value
			continue
		}
		sortedTimes = append(sortedTimes, s.time)
		sortedValues = append(sortedValues, s.value)
	}
	return sortedTimes, sortedValues
}
