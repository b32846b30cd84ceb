package storage

import "github.com/dgraph-io/badger/v2"

const DbKey = "DBKEY"

type BadgerMetadataStore struct {
	db *badger.DB
}

func NewBadgerMetadataStore(db *badger.DB) *BadgerMetadataStore {
	return &BadgerMetadataStore{db: db}
}

func GetCurveMetaKey(curveID int64) []byte {
	return GetKeyPrefix(CurveMetaKind, curveID)
}

func (bms *BadgerMetadataStore) PutDBAndCurve(
	dbBuf []byte, curveID int64, curveBuf []byte) error {
	return bms.db.Update(func(txn *badger.Txn) error {
		err := txn.Set([]byte(DbKey), dbBuf)
		if err != nil {
			return err
		}
		return txn.Set(GetCurveMetaKey(curveID), curveBuf)
	})
}

func (bms *BadgerMetadataStore) DeleteDBCurve(dbBuf []byte, curveID int64) error {
	return bms.db.Update(func(txn *badger.Txn) error {
		err := txn.Set([]byte(DbKey), dbBuf)
		if err != nil {
			return err
		}
		return txn.Delete(GetCurveMetaKey(curveID))
	})
}

func (bms *BadgerMetadataStore) GetDB() ([]byte, error) {
	return txnGet(bms.db, []byte(DbKey))
}

func (bms *BadgerMetadataStore) GetCurve(curveID int64) ([]byte, error) {
	return txnGet(bms.db, GetCurveMetaKey(curveID))
}
