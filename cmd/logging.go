package cmd

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger builds the structured logger every subcommand runs with: a
// text handler always writes to stderr, and when logFile is non-empty a
// second JSON handler is fanned out to it via slogmulti.Fanout.
func newLogger(logFile string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	if logFile == "" {
		return slog.New(stderrHandler), func() {}, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	jsonHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	handler := slogmulti.Fanout(stderrHandler, jsonHandler)

	return slog.New(handler), func() { file.Close() }, nil
}
