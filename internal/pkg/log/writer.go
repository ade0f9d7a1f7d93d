package log

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

// LevelWriter is an io.Writer, each written line is logged with the level.
type LevelWriter struct {
	logger Logger
	level  zapcore.Level
}

// Write messages with the defined level to the logger.
func (w *LevelWriter) Write(p []byte) (n int, err error) {
	ctx := context.Background()
	lines := strings.TrimRight(string(p), "\n")
	for _, line := range strings.Split(lines, "\n") {
		msg := strings.TrimRight(line, "\n")
		switch w.level {
		case DebugLevel:
			w.logger.Debug(ctx, msg)
		case InfoLevel:
			w.logger.Info(ctx, msg)
		case WarnLevel:
			w.logger.Warn(ctx, msg)
		case ErrorLevel:
			w.logger.Error(ctx, msg)
		default:
			w.logger.Info(ctx, msg)
		}
	}
	return len(p), nil
}

func (w *LevelWriter) WriteNoErr(p []byte) {
	if _, err := w.Write(p); err != nil {
		panic(errors.Errorf("cannot write: %w", err))
	}
}

func (w *LevelWriter) WriteString(s string) {
	w.WriteNoErr([]byte(s))
}

func (w *LevelWriter) Writef(format string, a ...any) {
	w.WriteNoErr([]byte(fmt.Sprintf(format, a...)))
}

func (w *LevelWriter) Close() error {
	return w.logger.Sync()
}
