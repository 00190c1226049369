package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/xerrors"
)

// New sets up a console zap.Logger writing to stderr at the given level
// ("debug", "info", "warn", "error").
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, xerrors.Errorf("invalid log level %q: %w", level, err)
	}

	prodConfig := zap.NewProductionConfig()
	prodConfig.Level = zap.NewAtomicLevelAt(lvl)
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	prodConfig.DisableStacktrace = true

	logger, err := prodConfig.Build()
	if err != nil {
		return nil, xerrors.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
