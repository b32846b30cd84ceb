package storage

import "sync"

// MetadataStore keeps the DB record (the list of curve IDs) and one record
// per curve. Both are written together so a reopened DB never lists a curve
// it cannot load.
type MetadataStore interface {
	PutDBAndCurve([]byte, int64, []byte) error
	DeleteDBCurve([]byte, int64) error
	GetDB() ([]byte, error)
	GetCurve(int64) ([]byte, error)
}

type SimpleMetadataStore struct {
	db     []byte
	curves map[int64][]byte
	mu     sync.Mutex
}

func NewSimpleMetadataStore() *SimpleMetadataStore {
	return &SimpleMetadataStore{
		db:     nil,
		curves: make(map[int64][]byte),
	}
}

func (smm *SimpleMetadataStore) PutDBAndCurve(db []byte, id int64, buf []byte) error {
	smm.mu.Lock()
	defer smm.mu.Unlock()
	smm.db = db
	smm.curves[id] = buf
	return nil
}

func (smm *SimpleMetadataStore) DeleteDBCurve(db []byte, id int64) error {
	smm.mu.Lock()
	defer smm.mu.Unlock()
	smm.db = db
	delete(smm.curves, id)
	return nil
}

func (smm *SimpleMetadataStore) GetDB() ([]byte, error) {
	smm.mu.Lock()
	defer smm.mu.Unlock()
	if smm.db == nil {
		return nil, ErrNotFound
	}
	return smm.db, nil
}

func (smm *SimpleMetadataStore) GetCurve(id int64) ([]byte, error) {
	smm.mu.Lock()
	defer smm.mu.Unlock()
	buf, ok := smm.curves[id]
	if !ok {
		return nil, ErrNotFound
	}
	return buf, nil
}
