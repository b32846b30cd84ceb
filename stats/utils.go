package stats

func Int64Max(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func Int64Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// Length in seconds of the half-open interval (l, r].
func IntervalLength(l, r int64) int64 {
	return Int64Max(r-l, 0)
}

// How many seconds do (l1, r1] and (l2, r2] share?
func IntervalOverlap(l1, r1, l2, r2 int64) int64 {
	return IntervalLength(Int64Max(l1, l2), Int64Min(r1, r2))
}
