package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global application logger. It is safe to use after Init.
var Log *zap.Logger

// Init builds the global logger. Debug mode uses the console encoder,
// everything else emits JSON for log collectors.
func Init(debug bool) {
	var encoderCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	level := zapcore.InfoLevel

	if debug {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
		level = zapcore.DebugLevel
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	Log = zap.New(core, zap.AddCaller())
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
