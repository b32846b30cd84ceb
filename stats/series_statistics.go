package stats

type SeriesStatistics struct {
	FirstTimestamp int64
	LastTimestamp  int64
	NumValues      uint64
	IntervalStats  *Welford
	ValueStats     *Welford
}

func NewSeriesStatistics() *SeriesStatistics {
	return &SeriesStatistics{
		FirstTimestamp: -1,
		LastTimestamp:  -1,
		NumValues:      0,
		IntervalStats:  NewWelford(),
		ValueStats:     NewWelford(),
	}
}

// Timestamps must arrive in ascending order.
func (series *SeriesStatistics) Append(timestamp int64, value float64) {
	if series.NumValues == 0 {
		series.FirstTimestamp = timestamp
	} else {
		interval := timestamp - series.LastTimestamp
		series.IntervalStats.Update(float64(interval))
	}

	series.ValueStats.Update(value)
	series.NumValues++
	series.LastTimestamp = timestamp
}

func ComputeSeriesStatistics(times []int64, values []float64) *SeriesStatistics {
	series := NewSeriesStatistics()
	for i := range times {
		series.Append(times[i], values[i])
	}
	return series
}

func (series *SeriesStatistics) Span() int64 {
	if series.NumValues == 0 {
		return 0
	}
	return series.LastTimestamp - series.FirstTimestamp
}
