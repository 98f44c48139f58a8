package hexwar40k

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds a component-scoped structured logger that writes
// timestamped console lines to stderr. It sets no level filter of its
// own, so which levels print follows zerolog's global level.
func NewLogger(component string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Str("component", component).Logger()
}

// LogResult emits one structured line per activation a handler
// resolves (at Debug, or at Warn when it did not succeed), mirroring
// the detail action_logs already carries so the two stay consistent.
// Actions refused before or by the handler with an error are not
// logged here.
func LogResult(log zerolog.Logger, state *GameState, entry ActionLogEntry) {
	ev := log.Debug()
	if !entry.Success {
		ev = log.Warn()
	}
	ev.Int("turn", entry.Turn).
		Int("player", entry.Player).
		Str("phase", string(entry.Phase)).
		Str("unit", entry.UnitID).
		Str("kind", entry.Kind).
		Str("target", entry.TargetID).
		Bool("success", entry.Success).
		Str("detail", entry.Detail).
		Msg("activation")
}
