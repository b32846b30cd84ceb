package resample

type eventKind int8

const (
	sampleEvent eventKind = iota
	boundaryEvent
)

// index points into the samples for a sampleEvent and into the boundaries
// for a boundaryEvent.
type event struct {
	kind  eventKind
	time  int64
	index int
}

// eventStream merges two ascending time axes. On equal times the sample
// comes first, so a sample sitting on a boundary belongs to the bucket that
// boundary closes.
type eventStream struct {
	times      []int64
	boundaries []int64
	si         int
	bi         int
}

func newEventStream(times, boundaries []int64) *eventStream {
	return &eventStream{
		times:      times,
		boundaries: boundaries,
	}
}

func (stream *eventStream) Next() (event, bool) {
	hasSample := stream.si < len(stream.times)
	hasBoundary := stream.bi < len(stream.boundaries)

	if hasSample && (!hasBoundary || stream.times[stream.si] <= stream.boundaries[stream.bi]) {
		ev := event{kind: sampleEvent, time: stream.times[stream.si], index: stream.si}
		stream.si++
		return ev, true
	}
	if hasBoundary {
		ev := event{kind: boundaryEvent, time: stream.boundaries[stream.bi], index: stream.bi}
		stream.bi++
		return ev, true
	}
	return event{}, false
}
