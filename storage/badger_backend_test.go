package storage

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestGetKey(t *testing.T) {
	a := int64(1<<32 - 1)

	key := GetKey(SeriesKind, a, a-2)

	assert.Equal(t, a, GetCurveIDFromKey(key))
	assert.Equal(t, a-2, GetSubIDFromKey(key))
	assert.Equal(t, SeriesKind, GetKindFromKey(key))
}

func TestGetKeyResult(t *testing.T) {
	a := int64(-1 << 62)

	key := GetKey(ResultKind, a, -5)

	assert.Equal(t, a, GetCurveIDFromKey(key))
	assert.Equal(t, int64(-5), GetSubIDFromKey(key))
	assert.Equal(t, ResultKind, GetKindFromKey(key))
	assert.Equal(t, GetKeyPrefix(ResultKind, a), key[:9])
}

func newTestBadgerBackend(t *testing.T) *BadgerBackend {
	backend := NewBadgerBackend(TestBadgerDB())
	t.Cleanup(func() {
		assert.NoError(t, backend.Close())
	})
	return backend
}

func TestBadgerBackend_Series(t *testing.T) {
	testSeries(t, newTestBadgerBackend(t))
}

func TestBadgerBackend_IterateResults(t *testing.T) {
	testIterateResults(t, newTestBadgerBackend(t))
}

func TestBadgerBackend_ReplaceSeries(t *testing.T) {
	testReplaceSeries(t, newTestBadgerBackend(t))
}

func TestBadgerBackend_DeleteCurve(t *testing.T) {
	testDeleteCurve(t, newTestBadgerBackend(t))
}

func TestBadgerBackend_Reopen(t *testing.T) {
	dir := t.TempDir()

	db, err := OpenBadgerDB(dir, false, nil)
	require.NoError(t, err)
	backend := NewBadgerBackend(db)
	require.NoError(t, backend.PutSeries(12, []byte{0, 1, 2, 3, 4, 5}))
	require.NoError(t, backend.PutResult(12, 34, []byte{6}))
	require.NoError(t, backend.Close())

	db, err = OpenBadgerDB(dir, false, nil)
	require.NoError(t, err)
	backend = NewBadgerBackend(db)
	defer backend.Close()

	buf, err := backend.GetSeries(12)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5}, buf)
	buf, err = backend.GetResult(12, 34)
	require.NoError(t, err)
	assert.Equal(t, []byte{6}, buf)
}
