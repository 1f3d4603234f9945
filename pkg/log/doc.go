// Package log provides the logging abstraction used across devicereport.
//
// Components log through the Logger interface so that embedding programs can
// plug in their own logging library. A zerolog adapter and a no-op logger are
// provided.
//
// # Usage
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	logger.Info("report sent", log.Int("status", 204))
//
// The no-op logger discards everything and is the library default:
//
//	logger := log.NewNoopLogger()
package log
