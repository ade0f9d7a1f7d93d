package errors

import (
	"fmt"
	"runtime"
	"strings"
)

type FormatConfig struct {
	WithStack  bool
	WithUnwrap bool
}

type FormatOption func(c *FormatConfig)

// MessageFormatter formats each error message. StackTrace is used only with FormatWithStack.
type MessageFormatter func(msg string, trace StackTrace, config FormatConfig) string

// PrefixFormatter formats a prefix followed by a list of errors.
type PrefixFormatter func(prefix string) string

// FormatWithStack adds the origin of each error to the output.
func FormatWithStack() FormatOption {
	return func(c *FormatConfig) {
		c.WithStack = true
	}
}

// FormatWithUnwrap adds wrapped errors to the output, they are hidden by default, see Wrap.
func FormatWithUnwrap() FormatOption {
	return func(c *FormatConfig) {
		c.WithUnwrap = true
	}
}

func Format(err error, opts ...FormatOption) string {
	w := NewWriter(defaultMessageFormatter, defaultPrefixFormatter, opts...)
	w.WriteError(err)
	return w.String()
}

func defaultMessageFormatter(msg string, trace StackTrace, config FormatConfig) string {
	if config.WithStack && len(trace) > 0 {
		frame := trace[0] - 1
		if fn := runtime.FuncForPC(frame); fn != nil {
			file, line := fn.FileLine(frame)
			msg = fmt.Sprintf("%s [%s:%d]", msg, file, line)
		}
	}
	return msg
}

func defaultPrefixFormatter(prefix string) string {
	return strings.TrimRight(prefix, ".,:") + ":"
}
