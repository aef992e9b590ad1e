package main

import (
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

// newLogger builds the logger injected into readers and writers. Verbose
// mode surfaces the coverage decisions the library logs at info level and
// the block-selection traces it logs at debug level.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
