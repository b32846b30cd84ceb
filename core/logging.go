package core

import (
	"fmt"
	"go.uber.org/zap"
)

// NewLogger builds a JSON production logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	config := zap.NewProductionConfig()
	config.Level = atomicLevel
	return config.Build()
}

// badgerLogger routes badger's internal logging into zap.
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func newBadgerLogger(logger *zap.Logger) *badgerLogger {
	return &badgerLogger{sugar: logger.Named("badger").Sugar()}
}

func (logger *badgerLogger) Errorf(format string, args ...interface{}) {
	logger.sugar.Errorf(format, args...)
}

func (logger *badgerLogger) Warningf(format string, args ...interface{}) {
	logger.sugar.Warnf(format, args...)
}

func (logger *badgerLogger) Infof(format string, args ...interface{}) {
	logger.sugar.Infof(format, args...)
}

func (logger *badgerLogger) Debugf(format string, args ...interface{}) {
	logger.sugar.Debugf(format, args...)
}
