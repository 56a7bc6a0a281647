package tinyalsa

import (
	"io"
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger installs the logger used for negotiation and stream setup records.
// Passing nil silences the package again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Store(l.With("module", "tinyalsa"))
}

func log() *slog.Logger {
	return logger.Load()
}
