package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/apper-apps/clientflow-continuous/internal/config"
)

// New returns a logger for env writing to w.
func New(env string, w io.Writer) (zerolog.Logger, error) {
	zerolog.TimestampFieldName = "timestamp"

	var level zerolog.Level
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
		w = consoleWriter(w)
	case config.EnvProd:
		level = zerolog.WarnLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel
		w = consoleWriter(w)
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	zerolog.SetGlobalLevel(level)

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger(), nil
}

func consoleWriter(w io.Writer) io.Writer {
	cw := zerolog.NewConsoleWriter()
	cw.TimeFormat = time.DateTime
	cw.Out = w
	return cw
}
