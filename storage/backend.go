package storage

import (
	"encoding/binary"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("key not found")

// Key kinds. A curve owns one series entry and any number of result entries.
const (
	SeriesKind    byte = 0
	ResultKind    byte = 1
	CurveMetaKind byte = 2
)

func GetKeyPrefix(kind byte, curveID int64) []byte {
	buf := make([]byte, 9)
	binary.LittleEndian.PutUint64(buf[:8], uint64(curveID))
	buf[8] = kind
	return buf
}

func GetKey(kind byte, curveID, subID int64) []byte {
	buf := make([]byte, 17)

	// <8 bytes curve ID> <1 byte kind> <8 bytes sub ID>
	binary.LittleEndian.PutUint64(buf[:8], uint64(curveID))
	buf[8] = kind
	binary.LittleEndian.PutUint64(buf[9:], uint64(subID))

	return buf
}

func GetCurveIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[:8]))
}

func GetKindFromKey(buf []byte) byte {
	return buf[8]
}

func GetSubIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[9:]))
}

// Backend stores the raw bytes behind a curve: its series and the results
// computed from it. Missing entries return ErrNotFound.
type Backend interface {
	GetSeries(int64) ([]byte, error)
	PutSeries(int64, []byte) error
	// ReplaceSeries stores a new series and drops every result of the curve.
	ReplaceSeries(int64, []byte) error

	GetResult(int64, int64) ([]byte, error)
	PutResult(int64, int64, []byte) error
	IterateResults(int64, func(int64) error) error

	DeleteCurve(int64) error

	Close() error
}

type InMemoryBackend struct {
	entries map[string][]byte
	mu      sync.Mutex
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		entries: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) get(key []byte) ([]byte, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	buf, ok := backend.entries[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return buf, nil
}

func (backend *InMemoryBackend) put(key, buf []byte) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.entries[string(key)] = buf
	return nil
}

// deleteMatching must be called with mu held.
func (backend *InMemoryBackend) deleteMatching(curveID int64, kinds ...byte) {
	for k := range backend.entries {
		buf := []byte(k)
		if GetCurveIDFromKey(buf) != curveID {
			continue
		}
		for _, kind := range kinds {
			if GetKindFromKey(buf) == kind {
				delete(backend.entries, k)
				break
			}
		}
	}
}

func (backend *InMemoryBackend) GetSeries(curveID int64) ([]byte, error) {
	return backend.get(GetKey(SeriesKind, curveID, 0))
}

func (backend *InMemoryBackend) PutSeries(curveID int64, buf []byte) error {
	return backend.put(GetKey(SeriesKind, curveID, 0), buf)
}

func (backend *InMemoryBackend) ReplaceSeries(curveID int64, buf []byte) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.deleteMatching(curveID, ResultKind)
	backend.entries[string(GetKey(SeriesKind, curveID, 0))] = buf
	return nil
}

func (backend *InMemoryBackend) GetResult(curveID, resultID int64) ([]byte, error) {
	return backend.get(GetKey(ResultKind, curveID, resultID))
}

func (backend *InMemoryBackend) PutResult(curveID, resultID int64, buf []byte) error {
	return backend.put(GetKey(ResultKind, curveID, resultID), buf)
}

func (backend *InMemoryBackend) DeleteCurve(curveID int64) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.deleteMatching(curveID, SeriesKind, ResultKind)
	return nil
}

// IterateResults visits result IDs in ascending order. The lambda runs
// without the lock held.
func (backend *InMemoryBackend) IterateResults(curveID int64, lambda func(int64) error) error {
	backend.mu.Lock()
	ids := make([]int64, 0)
	for k := range backend.entries {
		buf := []byte(k)
		if GetCurveIDFromKey(buf) != curveID || GetKindFromKey(buf) != ResultKind {
			continue
		}
		ids = append(ids, GetSubIDFromKey(buf))
	}
	backend.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := lambda(id); err != nil {
			return err
		}
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.entries = make(map[string][]byte)
	return nil
}
