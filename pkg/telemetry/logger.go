// Package telemetry wraps the server's structured logger, tracer, and
// step-duration metrics behind a small set of package functions so every
// component logs and instruments the same way.
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// Configure rebuilds the package logger. format is "console" or "json";
// level is one of debug/info/warn/error. Matches the teacher's pattern of
// routing debug/info/warn to stdout and error/fatal/panic to stderr on
// separate writers, so operators can pipe stderr to an alerting channel
// without drowning it in info noise.
func Configure(level, format string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	var out, errOut io.Writer = os.Stdout, os.Stderr
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		errOut = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	writer := zerolog.MultiLevelWriter(
		specificLevelWriter{Writer: out, Levels: []zerolog.Level{
			zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel,
		}},
		specificLevelWriter{Writer: errOut, Levels: []zerolog.Level{
			zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel,
		}},
	)
	log = zerolog.New(writer).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func init() {
	Configure("info", "console")
}

// L returns the package logger for call sites that want to attach fields
// (telemetry.L().With().Str("workflow_id", id).Logger()).
func L() zerolog.Logger { return log }

func Debug(msg string)                        { log.Debug().Msg(msg) }
func Debugf(format string, args ...interface{}) { log.Debug().Msgf(format, args...) }
func Info(msg string)                         { log.Info().Msg(msg) }
func Infof(format string, args ...interface{}) { log.Info().Msgf(format, args...) }
func Warn(msg string)                         { log.Warn().Msg(msg) }
func Warnf(format string, args ...interface{}) { log.Warn().Msgf(format, args...) }
func Error(msg string)                        { log.Error().Msg(msg) }
func Errorf(format string, args ...interface{}) { log.Error().Msgf(format, args...) }

// specificLevelWriter routes only the given levels to the wrapped writer.
// https://stackoverflow.com/questions/76858037/how-to-use-zerolog-to-filter-info-logs-to-stdout-and-error-logs-to-stderr
type specificLevelWriter struct {
	io.Writer
	Levels []zerolog.Level
}

func (w specificLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	for _, l := range w.Levels {
		if l == level {
			return w.Write(p)
		}
	}
	return len(p), nil
}
