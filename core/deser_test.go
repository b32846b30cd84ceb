package core

import (
	"curvedb/calendar"
	"curvedb/utils"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinylib/msgp/msgp"
	"math"
	"testing"
)

func TestSeriesSerialization(t *testing.T) {
	times := []int64{-86400, 0, 1518652800}
	values := []float64{1.5, math.Inf(-1), 0.125}

	buf := SeriesToBytes(times, values)
	newTimes, newValues, err := BytesToSeries(buf)
	require.NoError(t, err)

	utils.AssertTrue(t, cmp.Equal(times, newTimes))
	utils.AssertTrue(t, cmp.Equal(values, newValues))
}

func TestSeriesSerialization_NaN(t *testing.T) {
	buf := SeriesToBytes([]int64{1}, []float64{math.NaN()})
	_, values, err := BytesToSeries(buf)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(values[0]))
}

func TestSeriesSerialization_Empty(t *testing.T) {
	times, values, err := BytesToSeries(SeriesToBytes(nil, nil))
	require.NoError(t, err)
	assert.Empty(t, times)
	assert.Empty(t, values)
}

func TestResultSerialization(t *testing.T) {
	result := &Result{
		Policy:    PeriodEnd,
		Kind:      calendar.Quarter,
		TimeSteps: []int64{1514764800, 1522540800},
		Values:    []float64{3.25, 7},
	}

	newResult, err := BytesToResult(ResultToBytes(result))
	require.NoError(t, err)
	utils.AssertTrue(t, cmp.Equal(result, newResult))
}

func TestCurveAndDBSerialization(t *testing.T) {
	curve := NewCurveWithId(42, "well-7/oil rate")
	id, name, err := bytesToCurveMeta(curveToBytes(curve))
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "well-7/oil rate", name)

	nextID, ids, err := bytesToDB(dbToBytes(9, []int64{1, 4, 8}))
	require.NoError(t, err)
	assert.Equal(t, int64(9), nextID)
	assert.Equal(t, []int64{1, 4, 8}, ids)
}

func TestDeserialization_Corrupt(t *testing.T) {
	series := SeriesToBytes([]int64{1, 2}, []float64{3, 4})

	_, _, err := BytesToSeries(series[:len(series)-3])
	assert.ErrorIs(t, err, ErrCorrupt)

	_, _, err = BytesToSeries(append(series, 0))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = BytesToResult(series)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, _, err = BytesToSeries(nil)
	assert.ErrorIs(t, err, ErrCorrupt)

	// A length prefix larger than the payload is rejected before allocating.
	huge := appendHeader(nil, seriesTag, seriesFields)
	huge = msgp.AppendArrayHeader(huge, math.MaxUint32)
	_, _, err = BytesToSeries(huge)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = BytesToResult(append(ResultToBytes(&Result{Policy: WeightedMean, Kind: calendar.Day}), 0))
	assert.ErrorIs(t, err, ErrCorrupt)

	bad := ResultToBytes(&Result{Policy: Policy(9), Kind: calendar.Day})
	_, err = BytesToResult(bad)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDeserialization_HugeStringLength(t *testing.T) {
	buf := appendHeader(nil, curveTag, curveFields)
	buf = msgp.AppendInt64(buf, 7)
	// str32 header claiming 4GiB followed by a single byte.
	buf = append(buf, 0xdb, 0xff, 0xff, 0xff, 0xff, 'x')

	assert.NotPanics(t, func() {
		_, _, err := bytesToCurveMeta(buf)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	ids := appendHeader(nil, dbTag, dbFields)
	ids = msgp.AppendInt64(ids, 3)
	ids = msgp.AppendArrayHeader(ids, math.MaxUint32)
	assert.NotPanics(t, func() {
		_, _, err := bytesToDB(ids)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestResultMsgp(t *testing.T) {
	result := &Result{
		Policy:    WeightedMean,
		Kind:      calendar.Month,
		TimeSteps: []int64{1517443200},
		Values:    []float64{-2.5},
	}
	buf, err := result.MarshalMsg(nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(buf), result.Msgsize())

	decoded := &Result{}
	rest, err := decoded.UnmarshalMsg(buf)
	require.NoError(t, err)
	assert.Empty(t, rest)
	utils.AssertTrue(t, cmp.Equal(result, decoded))

	var _ msgp.Marshaler = result
	var _ msgp.Unmarshaler = decoded
}
