// Package logs sets up the process-wide structured logger.
package logs

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Options control where log records go.
type Options struct {
	// Level is the minimum level emitted.
	Level slog.Level
	// Journal also sends records to the systemd journal when available.
	Journal bool
}

// New returns a logger writing human-readable records to stderr and, when
// requested and available, to the systemd journal.
func New(opts Options) *slog.Logger {
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: opts.Level,
		}),
	}

	if opts.Journal {
		if h, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: opts.Level,
		}); err == nil {
			handlers = append(handlers, h)
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
