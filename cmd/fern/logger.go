package main

import (
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/fern/config"
	"go.uber.org/zap"
)

// newLogger builds the zap backed logger. The returned func flushes buffered entries.
func newLogger(cfg config.Config) (ectologger.Logger, func(), error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.PrettyLogs {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapConfig.Level = level
	}

	zapLogger, err := zapConfig.Build(zap.Fields(zap.String("app", cfg.AppName)))
	if err != nil {
		return nil, nil, err
	}

	return zapadapter.NewZapEctoLogger(zapLogger, nil), func() { _ = zapLogger.Sync() }, nil
}
