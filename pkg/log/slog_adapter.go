package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes capture events to an slog.Logger.
// Useful when watching a run live with -log-level debug.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Port != "" {
		attrs = append(attrs, slog.String("port", event.Port))
	}

	switch {
	case event.Command != nil:
		attrs = append(attrs,
			slog.String("kind", event.Command.Kind.String()),
			slog.String("text", event.Command.Text),
		)
	case event.Line != nil:
		attrs = append(attrs, slog.String("text", event.Line.Text))
		if event.Line.Invalid {
			attrs = append(attrs,
				slog.Bool("invalid", true),
				slog.Int("raw_len", len(event.Line.Raw)),
			)
		}
	case event.Phase != nil:
		attrs = append(attrs, slog.String("phase", event.Phase.Phase.String()))
		if event.Phase.Phase == PhaseWriteCycle {
			attrs = append(attrs, slog.Int("iteration", event.Phase.Iteration))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "console", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
