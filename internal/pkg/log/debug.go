package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/ioutil"
)

type debugLogger struct {
	*zapLogger
	all         *ioutil.AtomicWriter
	debug       *ioutil.AtomicWriter
	info        *ioutil.AtomicWriter
	warn        *ioutil.AtomicWriter
	warnOrError *ioutil.AtomicWriter
	error       *ioutil.AtomicWriter
}

// NewDebugLogger captures messages in memory, lines are formatted as "LEVEL  message".
func NewDebugLogger() DebugLogger {
	l := &debugLogger{
		all:         ioutil.NewAtomicWriter(),
		debug:       ioutil.NewAtomicWriter(),
		info:        ioutil.NewAtomicWriter(),
		warn:        ioutil.NewAtomicWriter(),
		warnOrError: ioutil.NewAtomicWriter(),
		error:       ioutil.NewAtomicWriter(),
	}

	l.zapLogger = loggerFromZap(zap.New(zapcore.NewTee(
		debugCore(l.all, func(zapcore.Level) bool { return true }),
		debugCore(l.debug, func(lvl zapcore.Level) bool { return lvl == DebugLevel }),
		debugCore(l.info, func(lvl zapcore.Level) bool { return lvl == InfoLevel }),
		debugCore(l.warn, func(lvl zapcore.Level) bool { return lvl == WarnLevel }),
		debugCore(l.warnOrError, func(lvl zapcore.Level) bool { return lvl == WarnLevel || lvl == ErrorLevel }),
		debugCore(l.error, func(lvl zapcore.Level) bool { return lvl == ErrorLevel }),
	)))

	return l
}

func debugCore(w *ioutil.AtomicWriter, enabler zap.LevelEnablerFunc) zapcore.Core {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: "  ",
	})
	return zapcore.NewCore(encoder, zapcore.AddSync(w), enabler)
}

func (l *debugLogger) Truncate() {
	l.all.Truncate()
	l.debug.Truncate()
	l.info.Truncate()
	l.warn.Truncate()
	l.warnOrError.Truncate()
	l.error.Truncate()
}

func (l *debugLogger) AllMessages() string {
	return l.all.String()
}

func (l *debugLogger) DebugMessages() string {
	return l.debug.String()
}

func (l *debugLogger) InfoMessages() string {
	return l.info.String()
}

func (l *debugLogger) WarnMessages() string {
	return l.warn.String()
}

func (l *debugLogger) WarnAndErrorMessages() string {
	return l.warnOrError.String()
}

func (l *debugLogger) ErrorMessages() string {
	return l.error.String()
}
