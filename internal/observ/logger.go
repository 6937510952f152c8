package observ

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger from the environment name and the
// configured level. An unrecognised level falls back to info with a
// warning rather than failing startup.
func NewLogger(env, level string) (*zap.Logger, error) {
	lvl, parseErr := zapcore.ParseLevel(level)
	if parseErr != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if parseErr != nil {
		log.Warn("unrecognised log level, using info", zap.String("level", level))
	}
	return log, nil
}
