package storage

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func testMetadataStore(t *testing.T, mds MetadataStore) {
	_, err := mds.GetDB()
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = mds.GetCurve(1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mds.PutDBAndCurve([]byte("db-1"), 1, []byte("curve-1")))
	require.NoError(t, mds.PutDBAndCurve([]byte("db-2"), 2, []byte("curve-2")))

	buf, err := mds.GetDB()
	require.NoError(t, err)
	assert.Equal(t, []byte("db-2"), buf)
	buf, err = mds.GetCurve(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("curve-1"), buf)

	require.NoError(t, mds.DeleteDBCurve([]byte("db-3"), 1))
	_, err = mds.GetCurve(1)
	assert.ErrorIs(t, err, ErrNotFound)
	buf, err = mds.GetDB()
	require.NoError(t, err)
	assert.Equal(t, []byte("db-3"), buf)
	buf, err = mds.GetCurve(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("curve-2"), buf)
}

func TestSimpleMetadataStore(t *testing.T) {
	testMetadataStore(t, NewSimpleMetadataStore())
}

func TestBadgerMetadataStore(t *testing.T) {
	db := TestBadgerDB()
	defer db.Close()
	testMetadataStore(t, NewBadgerMetadataStore(db))
}

func TestBadgerMetadataStore_SharesBackendDB(t *testing.T) {
	db := TestBadgerDB()
	defer db.Close()
	mds := NewBadgerMetadataStore(db)
	backend := NewBadgerBackend(db)

	require.NoError(t, mds.PutDBAndCurve([]byte("db"), 5, []byte("meta")))
	require.NoError(t, backend.PutSeries(5, []byte("series")))
	require.NoError(t, backend.DeleteCurve(5))

	buf, err := mds.GetCurve(5)
	require.NoError(t, err)
	assert.Equal(t, []byte("meta"), buf)
}
