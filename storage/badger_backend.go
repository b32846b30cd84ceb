package storage

import (
	"errors"
	"github.com/dgraph-io/badger/v2"
)

func TestBadgerDB() *badger.DB {
	option := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(option)
	if err != nil {
		panic(err)
	}
	return db
}

// OpenBadgerDB opens (or creates) a badger store at path. An empty path or
// inMemory keeps everything in memory.
func OpenBadgerDB(path string, inMemory bool, logger badger.Logger) (*badger.DB, error) {
	var option badger.Options
	if inMemory || path == "" {
		option = badger.DefaultOptions("").WithInMemory(true)
	} else {
		option = badger.DefaultOptions(path).WithTruncate(true)
	}
	return badger.Open(option.WithLogger(logger))
}

type BadgerBackend struct {
	db *badger.DB
}

func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}

func txnGet(db *badger.DB, key []byte) ([]byte, error) {
	var buf []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return buf, err
}

func txnPut(db *badger.DB, key, buf []byte) error {
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

func keysWithPrefix(txn *badger.Txn, prefix []byte) [][]byte {
	iterOpts := badger.DefaultIteratorOptions
	iterOpts.Prefix = prefix
	iterOpts.PrefetchValues = false
	iter := txn.NewIterator(iterOpts)
	defer iter.Close()

	keys := make([][]byte, 0)
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys
}

func deleteKeys(txn *badger.Txn, keys [][]byte) error {
	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

func (backend *BadgerBackend) GetSeries(curveID int64) ([]byte, error) {
	return txnGet(backend.db, GetKey(SeriesKind, curveID, 0))
}

func (backend *BadgerBackend) PutSeries(curveID int64, buf []byte) error {
	return txnPut(backend.db, GetKey(SeriesKind, curveID, 0), buf)
}

func (backend *BadgerBackend) ReplaceSeries(curveID int64, buf []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		stale := keysWithPrefix(txn, GetKeyPrefix(ResultKind, curveID))
		if err := deleteKeys(txn, stale); err != nil {
			return err
		}
		return txn.Set(GetKey(SeriesKind, curveID, 0), buf)
	})
}

func (backend *BadgerBackend) GetResult(curveID, resultID int64) ([]byte, error) {
	return txnGet(backend.db, GetKey(ResultKind, curveID, resultID))
}

func (backend *BadgerBackend) PutResult(curveID, resultID int64, buf []byte) error {
	return txnPut(backend.db, GetKey(ResultKind, curveID, resultID), buf)
}

func (backend *BadgerBackend) DeleteCurve(curveID int64) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		keys := keysWithPrefix(txn, GetKeyPrefix(ResultKind, curveID))
		keys = append(keys, GetKey(SeriesKind, curveID, 0))
		return deleteKeys(txn, keys)
	})
}

// IterateResults visits result IDs in key order.
func (backend *BadgerBackend) IterateResults(curveID int64, lambda func(int64) error) error {
	return backend.db.View(func(txn *badger.Txn) error {
		for _, key := range keysWithPrefix(txn, GetKeyPrefix(ResultKind, curveID)) {
			if err := lambda(GetSubIDFromKey(key)); err != nil {
				return err
			}
		}
		return nil
	})
}
