package application

import "log/slog"

// ResolveLogger returns logger, or the process default when nil, tagged with
// the bounded context so election lines can be filtered out of shared output.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("bounded_context", "governance")
}
