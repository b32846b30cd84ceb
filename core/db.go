package core

import (
	"context"
	"curvedb/calendar"
	"curvedb/storage"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"sort"
	"sync"
	"time"
)

var (
	ErrCurveNotFound = errors.New("curve not found")
	ErrCurveExists   = errors.New("curve already exists")
)

type DB struct {
	config  *StoreConfig
	backend storage.Backend
	mds     storage.MetadataStore
	store   *BackingStore
	curves  map[int64]*Curve
	names   map[string]int64
	nextID  int64
	logger  *zap.Logger
	mu      sync.Mutex
}

func New(config *StoreConfig) (*DB, error) {
	return NewWithLogger(config, zap.NewNop())
}

// NewWithLogger creates an empty DB. An in-memory config keeps everything in
// Go maps; otherwise a badger store is opened at config.Path.
func NewWithLogger(config *StoreConfig, logger *zap.Logger) (*DB, error) {
	if config == nil {
		config = DefaultStoreConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var backend storage.Backend
	var mds storage.MetadataStore
	if config.InMemory {
		backend = storage.NewInMemoryBackend()
		mds = storage.NewSimpleMetadataStore()
	} else {
		badgerDb, err := storage.OpenBadgerDB(config.Path, false, newBadgerLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", config.Path, err)
		}
		backend = storage.NewBadgerBackend(badgerDb)
		mds = storage.NewBadgerMetadataStore(badgerDb)
	}

	store, err := NewBackingStore(backend, config.CacheEnabled, config.CacheMaxCost)
	if err != nil {
		backend.Close()
		return nil, err
	}

	db := &DB{
		config:  config,
		backend: backend,
		mds:     mds,
		store:   store,
		curves:  make(map[int64]*Curve),
		names:   make(map[string]int64),
		logger:  logger,
	}
	return db, nil
}

func Open(config *StoreConfig) (*DB, error) {
	return OpenWithLogger(config, zap.NewNop())
}

// OpenWithLogger creates the DB and reloads every persisted curve.
func OpenWithLogger(config *StoreConfig, logger *zap.Logger) (*DB, error) {
	db, err := NewWithLogger(config, logger)
	if err != nil {
		return nil, err
	}
	err = db.ReadDB()
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) SetLogger(logger *zap.Logger) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.logger = logger
	for _, curve := range db.curves {
		curve.SetLogger(logger)
	}
	return db
}

func (db *DB) Config() *StoreConfig {
	return db.config
}

func (db *DB) Close() error {
	db.store.Close()
	return db.backend.Close()
}

// newCurve must be called with mu held.
func (db *DB) newCurve(id int64, name string) *Curve {
	curve := NewCurveWithId(id, name).
		SetBackingStore(db.store).
		SetLogger(db.logger)
	db.curves[id] = curve
	db.names[name] = id
	return curve
}

func (db *DB) NewCurve(name string) (*Curve, error) {
	if name == "" {
		return nil, errors.New("curve name is empty")
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.names[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrCurveExists, name)
	}
	id := db.nextID
	db.nextID++
	curve := db.newCurve(id, name)

	err := db.mds.PutDBAndCurve(db.serialize(), id, curveToBytes(curve))
	if err != nil {
		delete(db.curves, id)
		delete(db.names, name)
		return nil, fmt.Errorf("persisting curve %q: %w", name, err)
	}
	db.logger.Info("curve created", zap.Int64("curve_id", id), zap.String("curve", name))
	return curve, nil
}

func (db *DB) GetCurve(id int64) (*Curve, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	curve, ok := db.curves[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrCurveNotFound, id)
	}
	return curve, nil
}

func (db *DB) FindCurve(name string) (*Curve, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	id, ok := db.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCurveNotFound, name)
	}
	return db.curves[id], nil
}

// Curves returns every curve ordered by ID.
func (db *DB) Curves() []*Curve {
	db.mu.Lock()
	defer db.mu.Unlock()
	curves := make([]*Curve, 0, len(db.curves))
	for _, curve := range db.curves {
		curves = append(curves, curve)
	}
	sort.Slice(curves, func(i, j int) bool {
		return curves[i].id < curves[j].id
	})
	return curves
}

func (db *DB) DeleteCurve(id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	curve, ok := db.curves[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrCurveNotFound, id)
	}
	delete(db.curves, id)
	delete(db.names, curve.name)

	if err := db.mds.DeleteDBCurve(db.serialize(), id); err != nil {
		db.curves[id] = curve
		db.names[curve.name] = id
		return fmt.Errorf("deleting curve %q: %w", curve.name, err)
	}
	if err := db.store.DeleteCurve(id); err != nil {
		return fmt.Errorf("deleting curve %q: %w", curve.name, err)
	}
	db.logger.Info("curve deleted", zap.Int64("curve_id", id), zap.String("curve", curve.name))
	return nil
}

// ResampleAll resamples every curve with at most config.Workers curves in
// flight. Results are keyed by curve ID. The first error cancels the rest.
func (db *DB) ResampleAll(
	ctx context.Context,
	policy Policy,
	kind calendar.PeriodKind) (map[int64]*Result, error) {
	curves := db.Curves()
	results := make([]*Result, len(curves))
	start := time.Now()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(db.config.Workers)
	for i, curve := range curves {
		i, curve := i, curve
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := curve.Resample(policy, kind)
			if err != nil {
				return fmt.Errorf("curve %q: %w", curve.name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		db.logger.Error("batch resample failed",
			zap.Stringer("policy", policy),
			zap.Stringer("period", kind),
			zap.Error(err))
		return nil, err
	}

	byID := make(map[int64]*Result, len(curves))
	for i, curve := range curves {
		byID[curve.id] = results[i]
	}
	db.logger.Info("batch resample done",
		zap.Stringer("policy", policy),
		zap.Stringer("period", kind),
		zap.Int("curves", len(curves)),
		zap.Int("workers", db.config.Workers),
		zap.Duration("elapsed", time.Since(start)))
	return byID, nil
}

// ReadDB loads the curve list written by earlier sessions. A store without a
// DB record is treated as new.
func (db *DB) ReadDB() error {
	buf, err := db.mds.GetDB()
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	nextID, ids, err := bytesToDB(buf)
	if err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID = nextID
	for _, id := range ids {
		curveBuf, err := db.mds.GetCurve(id)
		if err != nil {
			return fmt.Errorf("curve %d: %w", id, err)
		}
		curveID, name, err := bytesToCurveMeta(curveBuf)
		if err != nil {
			return fmt.Errorf("curve %d: %w", id, err)
		}
		db.newCurve(curveID, name)
	}
	db.logger.Info("db loaded", zap.Int("curves", len(ids)))
	return nil
}

// serialize must be called with mu held.
func (db *DB) serialize() []byte {
	ids := make([]int64, 0, len(db.curves))
	for id := range db.curves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return dbToBytes(db.nextID, ids)
}
