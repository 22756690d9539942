package generator

import (
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the diagnostic logging surface this package writes to. It is
// satisfied by *logiface.Logger[*stumpy.Event] (the default, see
// defaultLogger) or any adapter with the same shape — logiface ships
// equivalents backed by zerolog, logrus and slog in the wider package
// family this repo is drawn from.
type Logger interface {
	Debug() *logiface.Builder[*stumpy.Event]
	Warning() *logiface.Builder[*stumpy.Event]
	Err() *logiface.Builder[*stumpy.Event]
}

var (
	globalLoggerMu sync.RWMutex
	globalLogger   Logger
)

// SetLogger sets the package-wide default logger used by Generators that
// weren't constructed with WithLogger. Passing nil restores the built-in
// stumpy-backed default.
func SetLogger(l Logger) {
	globalLoggerMu.Lock()
	defer globalLoggerMu.Unlock()
	globalLogger = l
}

func defaultLogger() Logger {
	globalLoggerMu.RLock()
	l := globalLogger
	globalLoggerMu.RUnlock()
	if l != nil {
		return l
	}
	return builtinLogger
}

// builtinLogger is a minimal stumpy-backed logiface.Logger, informational
// level and above, writing to stderr — the same pairing the teacher
// monorepo's own logiface adapter packages use for their default.
var builtinLogger = logiface.New[*stumpy.Event](stumpy.WithStumpy())
