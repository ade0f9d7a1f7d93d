package errors

import (
	"runtime"
)

const stackDepth = 32

// StackTrace contains program counters of the error origin, the first frame is used in FormatWithStack output.
type StackTrace []uintptr

type stackTracer interface {
	StackTrace() StackTrace
}

func callers() StackTrace {
	var pcs [stackDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}
