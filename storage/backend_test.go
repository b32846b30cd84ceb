package storage

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func testSeries(t *testing.T, backend Backend) {
	_, err := backend.GetSeries(1)
	assert.ErrorIs(t, err, ErrNotFound)

	series := []byte{0, 1, 2, 3, 4, 5}
	require.NoError(t, backend.PutSeries(1, series))
	buf, err := backend.GetSeries(1)
	require.NoError(t, err)
	assert.Equal(t, series, buf)

	_, err = backend.GetSeries(2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func testIterateResults(t *testing.T, backend Backend) {
	require.NoError(t, backend.PutResult(1, 1, nil))
	require.NoError(t, backend.PutResult(1, 2, nil))
	require.NoError(t, backend.PutResult(2, 3, nil))
	require.NoError(t, backend.PutResult(2, 4, nil))
	require.NoError(t, backend.PutSeries(1, []byte{9}))

	var index []int64

	initIndex := func() {
		index = make([]int64, 0)
	}

	lambda := func(resultID int64) error {
		index = append(index, resultID)
		return nil
	}

	initIndex()
	err := backend.IterateResults(1, lambda)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, index)

	initIndex()
	err = backend.IterateResults(2, lambda)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []int64{3, 4}, index)

	initIndex()
	err = backend.IterateResults(3, lambda)
	assert.NoError(t, err)
	assert.Empty(t, index)

	stop := assert.AnError
	err = backend.IterateResults(1, func(int64) error { return stop })
	assert.ErrorIs(t, err, stop)
}

func testReplaceSeries(t *testing.T, backend Backend) {
	require.NoError(t, backend.PutSeries(7, []byte{1}))
	require.NoError(t, backend.PutResult(7, 10, []byte{2}))
	require.NoError(t, backend.PutResult(7, 11, []byte{3}))
	require.NoError(t, backend.PutResult(8, 10, []byte{4}))

	require.NoError(t, backend.ReplaceSeries(7, []byte{5}))

	buf, err := backend.GetSeries(7)
	require.NoError(t, err)
	assert.Equal(t, []byte{5}, buf)
	_, err = backend.GetResult(7, 10)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.GetResult(7, 11)
	assert.ErrorIs(t, err, ErrNotFound)

	buf, err = backend.GetResult(8, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte{4}, buf)
}

func testDeleteCurve(t *testing.T, backend Backend) {
	require.NoError(t, backend.PutSeries(3, []byte{1}))
	require.NoError(t, backend.PutResult(3, 1, []byte{2}))
	require.NoError(t, backend.PutSeries(4, []byte{3}))

	require.NoError(t, backend.DeleteCurve(3))
	_, err := backend.GetSeries(3)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.GetResult(3, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	buf, err := backend.GetSeries(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, buf)

	// Deleting an unknown curve is a no-op.
	assert.NoError(t, backend.DeleteCurve(99))
}

func TestInMemoryBackend_Series(t *testing.T) {
	testSeries(t, NewInMemoryBackend())
}

func TestInMemoryBackend_IterateResults(t *testing.T) {
	testIterateResults(t, NewInMemoryBackend())
}

func TestInMemoryBackend_IterateResultsOrdered(t *testing.T) {
	backend := NewInMemoryBackend()
	for _, id := range []int64{300, 2, 41, 7} {
		require.NoError(t, backend.PutResult(1, id, nil))
	}
	ids := make([]int64, 0)
	require.NoError(t, backend.IterateResults(1, func(id int64) error {
		ids = append(ids, id)
		return nil
	}))
	assert.Equal(t, []int64{2, 7, 41, 300}, ids)
}

func TestInMemoryBackend_ReplaceSeries(t *testing.T) {
	testReplaceSeries(t, NewInMemoryBackend())
}

func TestInMemoryBackend_DeleteCurve(t *testing.T) {
	testDeleteCurve(t, NewInMemoryBackend())
}
