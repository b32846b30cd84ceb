package core

import (
	"curvedb/calendar"
	"curvedb/storage"
	"github.com/dgraph-io/ristretto"
)

type cachedSeries struct {
	times  []int64
	values []float64
}

// BackingStore puts a ristretto cache in front of a storage.Backend and
// handles (de)serialization. Cached values are shared and must not be
// modified by callers.
type BackingStore struct {
	backend      storage.Backend
	cacheEnabled bool
	seriesCache  *ristretto.Cache
	resultCache  *ristretto.Cache
}

func NewBackingStore(backend storage.Backend, cacheEnabled bool, maxCost int64) (*BackingStore, error) {
	store := &BackingStore{
		backend:      backend,
		cacheEnabled: cacheEnabled,
	}
	if !cacheEnabled {
		return store, nil
	}

	var err error
	store.seriesCache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	store.resultCache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func seriesCost(n int) int64 {
	return int64(16*n + 1)
}

func (store *BackingStore) GetSeries(curveID int64) ([]int64, []float64, error) {
	key := storage.GetKey(storage.SeriesKind, curveID, 0)
	if store.cacheEnabled {
		series, found := store.seriesCache.Get(key)
		if found {
			cached := series.(*cachedSeries)
			return cached.times, cached.values, nil
		}
	}
	buf, err := store.backend.GetSeries(curveID)
	if err != nil {
		return nil, nil, err
	}
	times, values, err := BytesToSeries(buf)
	if err != nil {
		return nil, nil, err
	}
	if store.cacheEnabled {
		store.seriesCache.Set(key, &cachedSeries{times: times, values: values}, seriesCost(len(times)))
	}
	return times, values, nil
}

// ReplaceSeries persists a new series and drops every stored result of the
// curve, both on disk and in the cache.
func (store *BackingStore) ReplaceSeries(curveID int64, times []int64, values []float64) error {
	if store.cacheEnabled {
		for _, id := range resultIDs() {
			store.resultCache.Del(storage.GetKey(storage.ResultKind, curveID, id))
		}
		store.seriesCache.Del(storage.GetKey(storage.SeriesKind, curveID, 0))
	}
	return store.backend.ReplaceSeries(curveID, SeriesToBytes(times, values))
}

func (store *BackingStore) GetResult(
	curveID int64,
	policy Policy,
	kind calendar.PeriodKind) (*Result, error) {
	id := resultID(policy, kind)
	key := storage.GetKey(storage.ResultKind, curveID, id)
	if store.cacheEnabled {
		result, found := store.resultCache.Get(key)
		if found {
			return result.(*Result), nil
		}
	}
	buf, err := store.backend.GetResult(curveID, id)
	if err != nil {
		return nil, err
	}
	result, err := BytesToResult(buf)
	if err != nil {
		return nil, err
	}
	if store.cacheEnabled {
		store.resultCache.Set(key, result, seriesCost(len(result.Values)))
	}
	return result, nil
}

func (store *BackingStore) PutResult(curveID int64, result *Result) error {
	id := resultID(result.Policy, result.Kind)
	if store.cacheEnabled {
		store.resultCache.Set(
			storage.GetKey(storage.ResultKind, curveID, id),
			result,
			seriesCost(len(result.Values)))
	}
	return store.backend.PutResult(curveID, id, ResultToBytes(result))
}

// StoredResults loads every persisted result of a curve.
func (store *BackingStore) StoredResults(curveID int64) ([]*Result, error) {
	results := make([]*Result, 0)
	err := store.backend.IterateResults(curveID, func(id int64) error {
		buf, err := store.backend.GetResult(curveID, id)
		if err != nil {
			return err
		}
		result, err := BytesToResult(buf)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	return results, err
}

func (store *BackingStore) DeleteCurve(curveID int64) error {
	if store.cacheEnabled {
		for _, id := range resultIDs() {
			store.resultCache.Del(storage.GetKey(storage.ResultKind, curveID, id))
		}
		store.seriesCache.Del(storage.GetKey(storage.SeriesKind, curveID, 0))
	}
	return store.backend.DeleteCurve(curveID)
}

func (store *BackingStore) Close() {
	if store.cacheEnabled {
		store.seriesCache.Close()
		store.resultCache.Close()
	}
}
