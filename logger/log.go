package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the JSON production logger used by every mode.
func New(environment, logLevel string) (*zap.Logger, error) {
	var zapLogLevel zapcore.Level = zap.InfoLevel
	if logLevel == "debug" {
		zapLogLevel = zap.DebugLevel
	}

	zapConfig := zap.NewProductionConfig()

	zapConfig.Level.SetLevel(zapLogLevel)
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.WithOptions(zap.AddStacktrace(zapcore.FatalLevel)).With(zap.String("environment", environment)), nil
}

// InitLogger installs the logger as zap's global one.
func InitLogger(environment, logLevel string) error {
	logger, err := New(environment, logLevel)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
