package logging

import (
	"log/slog"
	"os"
)

// SetupJSON installs a JSON slog logger at the given level as the
// process default, tagged with the service name.
func SetupJSON(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	slog.SetDefault(slog.New(handler).With("service", "aggregator"))
}
