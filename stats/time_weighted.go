package stats

// TimeWeighted accumulates sum(value * seconds) for one bucket.
type TimeWeighted struct {
	sum     float64
	seconds int64
}

func NewTimeWeighted() *TimeWeighted {
	return &TimeWeighted{}
}

func (tw *TimeWeighted) Add(value float64, seconds int64) {
	if seconds <= 0 {
		return
	}
	tw.sum += value * float64(seconds)
	tw.seconds += seconds
}

func (tw *TimeWeighted) Seconds() int64 {
	return tw.seconds
}

func (tw *TimeWeighted) Empty() bool {
	return tw.seconds == 0
}

// Mean over the given bucket length. Callers pass the bucket's calendar
// length so that months of different length divide correctly.
func (tw *TimeWeighted) Mean(bucketSeconds int64) float64 {
	return tw.sum / float64(bucketSeconds)
}

func (tw *TimeWeighted) Reset() {
	tw.sum = 0
	tw.seconds = 0
}
