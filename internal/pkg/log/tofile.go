package log

import (
	"go.uber.org/zap/zapcore"
)

// fileCore writes all levels to the logFile as JSON lines.
func fileCore(logFile *File) zapcore.Core {
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:     "time",
		LevelKey:    "level",
		NameKey:     "component",
		MessageKey:  "message",
		EncodeLevel: zapcore.LowercaseLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
		EncodeName:  zapcore.FullNameEncoder,
	})

	return zapcore.NewCore(encoder, logFile.File(), zapcore.DebugLevel)
}
