package commands

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
)

// Common static errors used throughout the commands package.
var (
	errInvalidID = errors.New("expected a positive integer")
)

// cliLogger adapts zerolog to the kb4.Logger interface for --verbose output.
type cliLogger struct {
	log zerolog.Logger
}

func newCLILogger() *cliLogger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	return &cliLogger{
		log: zerolog.New(writer).With().Timestamp().Logger().Level(zerolog.DebugLevel),
	}
}

func (l *cliLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *cliLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *cliLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *cliLogger) Error(msg string, fields map[string]interface{}) {
	l.log.Error().Fields(fields).Msg(msg)
}
