package core

import (
	"curvedb/calendar"
	"curvedb/resample"
	"curvedb/stats"
	"curvedb/storage"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"sync"
)

// Result is one resampled view of a curve.
type Result struct {
	Policy    Policy
	Kind      calendar.PeriodKind
	TimeSteps []int64
	Values    []float64
}

func (result *Result) Clone() *Result {
	clone := &Result{
		Policy:    result.Policy,
		Kind:      result.Kind,
		TimeSteps: make([]int64, len(result.TimeSteps)),
		Values:    make([]float64, len(result.Values)),
	}
	copy(clone.TimeSteps, result.TimeSteps)
	copy(clone.Values, result.Values)
	return clone
}

func (result *Result) Len() int {
	return len(result.TimeSteps)
}

// Curve is a named series held by a DB. All methods are safe for concurrent
// use; resampling of one curve is serialized.
type Curve struct {
	id        int64
	name      string
	resampler *resample.Resampler
	store     *BackingStore
	logger    *zap.Logger
	loaded    bool
	mu        sync.Mutex
}

func NewCurveWithId(id int64, name string) *Curve {
	return &Curve{
		id:        id,
		name:      name,
		resampler: resample.NewResampler(),
		logger:    zap.NewNop(),
	}
}

func (curve *Curve) SetBackingStore(store *BackingStore) *Curve {
	curve.store = store
	return curve
}

func (curve *Curve) SetLogger(logger *zap.Logger) *Curve {
	curve.logger = logger.With(zap.Int64("curve_id", curve.id), zap.String("curve", curve.name))
	return curve
}

func (curve *Curve) ID() int64 {
	return curve.id
}

func (curve *Curve) Name() string {
	return curve.name
}

// load pulls the persisted series into the resampler on first use. Must be
// called with mu held.
func (curve *Curve) load() error {
	if curve.loaded || curve.store == nil {
		return nil
	}
	times, values, err := curve.store.GetSeries(curve.id)
	if errors.Is(err, storage.ErrNotFound) {
		curve.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading curve %q: %w", curve.name, err)
	}
	if err := curve.resampler.SetCurveData(values, times); err != nil {
		return err
	}
	curve.loaded = true
	return nil
}

// SetData replaces the curve's samples, persists them and invalidates every
// stored result.
func (curve *Curve) SetData(values []float64, times []int64) error {
	curve.mu.Lock()
	defer curve.mu.Unlock()

	if err := curve.resampler.SetCurveData(values, times); err != nil {
		return err
	}
	curve.loaded = true
	if curve.store == nil {
		return nil
	}
	err := curve.store.ReplaceSeries(curve.id, curve.resampler.TimeSteps(), curve.resampler.Values())
	if err != nil {
		curve.logger.Error("persisting series failed", zap.Error(err))
		return fmt.Errorf("persisting curve %q: %w", curve.name, err)
	}
	curve.logger.Debug("series replaced", zap.Int("samples", curve.resampler.Len()))
	return nil
}

// Data returns a copy of the normalized samples.
func (curve *Curve) Data() ([]int64, []float64, error) {
	curve.mu.Lock()
	defer curve.mu.Unlock()
	if err := curve.load(); err != nil {
		return nil, nil, err
	}
	times := make([]int64, curve.resampler.Len())
	values := make([]float64, curve.resampler.Len())
	copy(times, curve.resampler.TimeSteps())
	copy(values, curve.resampler.Values())
	return times, values, nil
}

func (curve *Curve) compute(policy Policy, kind calendar.PeriodKind) (*Result, error) {
	var err error
	switch policy {
	case WeightedMean:
		err = curve.resampler.ResampleAndComputeWeightedMeanValues(kind)
	case PeriodEnd:
		err = curve.resampler.ResampleAndComputePeriodEndValues(kind)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		Policy:    policy,
		Kind:      kind,
		TimeSteps: curve.resampler.ResampledTimeSteps(),
		Values:    curve.resampler.ResampledValues(),
	}, nil
}

// Resample returns the curve reduced to one value per period, looking in the
// cache and the backend before computing. The returned Result is owned by
// the caller.
func (curve *Curve) Resample(policy Policy, kind calendar.PeriodKind) (*Result, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", calendar.ErrUnknownPeriod, kind)
	}

	curve.mu.Lock()
	defer curve.mu.Unlock()

	if curve.store != nil {
		result, err := curve.store.GetResult(curve.id, policy, kind)
		if err == nil {
			return result.Clone(), nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			curve.logger.Warn("stored result unreadable, recomputing",
				zap.Stringer("policy", policy),
				zap.Stringer("period", kind),
				zap.Error(err))
		}
		curve.logger.Debug("result miss",
			zap.Stringer("policy", policy),
			zap.Stringer("period", kind))
	}

	if err := curve.load(); err != nil {
		return nil, err
	}
	result, err := curve.compute(policy, kind)
	if err != nil {
		return nil, err
	}

	if curve.store != nil {
		if err := curve.store.PutResult(curve.id, result); err != nil {
			curve.logger.Error("persisting result failed", zap.Error(err))
			return nil, fmt.Errorf("persisting result of %q: %w", curve.name, err)
		}
	}
	return result.Clone(), nil
}

func (curve *Curve) Statistics() (*stats.SeriesStatistics, error) {
	curve.mu.Lock()
	defer curve.mu.Unlock()
	if err := curve.load(); err != nil {
		return nil, err
	}
	return stats.ComputeSeriesStatistics(curve.resampler.TimeSteps(), curve.resampler.Values()), nil
}

// StoredResults lists the results already persisted for this curve.
func (curve *Curve) StoredResults() ([]*Result, error) {
	if curve.store == nil {
		return make([]*Result, 0), nil
	}
	return curve.store.StoredResults(curve.id)
}
