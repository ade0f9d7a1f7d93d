package datasheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/umisama/go-regexpcache"

	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
)

const secretsPattern = `(?i)(token:?\s*|bearer\s+)[^\s"]+`

// restyLogger forwards resty messages to the debug level, secrets are hidden.
type restyLogger struct {
	logger log.Logger
}

func (l *restyLogger) Debugf(format string, v ...any) {
	l.log("", format, v...)
}

func (l *restyLogger) Warnf(format string, v ...any) {
	l.log("WARN ", format, v...)
}

func (l *restyLogger) Errorf(format string, v ...any) {
	l.log("ERROR ", format, v...)
}

func (l *restyLogger) log(level, format string, v ...any) {
	msg := strings.TrimRight(level+fmt.Sprintf(format, v...), "\n")
	l.logger.Debug(context.Background(), hideSecrets(msg))
}

func hideSecrets(msg string) string {
	return regexpcache.MustCompile(secretsPattern).ReplaceAllString(msg, "$1*****")
}
