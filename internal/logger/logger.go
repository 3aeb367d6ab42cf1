// Package logger builds the kratos structured logger shared by every component.
package logger

import (
	"io"
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// New returns a logger writing key/value lines to w, stamped with time, caller
// and service name. Records below level are dropped.
func New(w io.Writer, service, level string) log.Logger {
	if w == nil {
		w = os.Stdout
	}
	l := log.With(log.NewStdLogger(w),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service", service,
	)
	return log.NewFilter(l, log.FilterLevel(log.ParseLevel(level)))
}

// Discard is a helper for tests and optional components.
func Discard() *log.Helper {
	return log.NewHelper(log.NewStdLogger(io.Discard))
}
