// Package logging builds the structured logger used across the studio.
//
// Log output goes to a rotating file; in development mode a colored console
// core is teed in on stderr. Stdout is never written to — it is reserved for
// the JSON-RPC protocol stream.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a zap logger writing to logFile with rotation (20MB max,
// 3 backups, 14 days). Development mode lowers the level to debug and adds
// a console core on stderr.
func New(development bool, logFile string) *zap.Logger {
	level := zapcore.InfoLevel
	if development {
		level = zapcore.DebugLevel
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    20,
		MaxBackups: 3,
		MaxAge:     14,
		Compress:   true,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileWriter, level),
	}

	if development {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}
