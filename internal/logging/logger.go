// Package logging builds the zap.Logger used throughout the builder. The
// teacher's service layer (internal/service/lumen_service.go) accepts an
// already-constructed *zap.Logger and calls it with structured fields; this
// package is the construction side that teacher never needed since its
// logger came from the HTTP server's own bootstrap. Rotation is handled by
// lumberjack, a dependency the teacher already carries indirectly through
// its own logging stack.
package logging

import (
	"os"

	"github.com/lumilio-gallery/manifest-builder/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logger from the effective LoggingConfig. Console output always
// goes to stderr so stdout stays reserved for the cluster-mode IPC stream
// (§4.F); file output, if enabled, additionally rotates through lumberjack.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	} else if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level = zapcore.InfoLevel
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoderCfg := encoderCfg
	consoleEncoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderCfg),
			zapcore.Lock(zapcore.AddSync(os.Stderr)),
			level,
		),
	}

	if cfg.OutputToFile {
		path := cfg.LogFilePath
		if path == "" {
			path = "manifest-builder.log"
		}
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(rotator),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
