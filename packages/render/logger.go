package render

import (
	"log/slog"
	"sync/atomic"
)

var silent = slog.New(slog.DiscardHandler)

// current is read from the render loop and may be swapped from any
// goroutine.
var current atomic.Pointer[slog.Logger]

// SetLogger routes the log output of render, filters and scene to l.
// Nothing is logged until it is called; nil silences the packages again.
//
// Debug covers render target allocation and disposal, Info the graphics
// context lifecycle and shader loading, Warn effects that were dropped
// because the GPU refused an allocation.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set with SetLogger.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return silent
}
