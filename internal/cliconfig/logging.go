package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/devicereport/pkg/log"
)

// Logger returns the CLI console logger at info level, or debug when
// debug is set.
func Logger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return log.NewConsoleLogger(os.Stderr, level)
}
