// Package logging builds the slog logger used by vfs2tool.
package logging

import (
	"io"
	"log/slog"
)

// New returns a text logger writing records at level and above to w.
// Timestamps are dropped.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
