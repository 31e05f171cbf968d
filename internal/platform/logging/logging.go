package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger tagged with component. APP_ENV=dev switches to
// human-readable console output.
func New(component string) zerolog.Logger {
	return NewWithWriter(os.Stdout, os.Getenv("APP_ENV"), component)
}

// NewWithWriter is New with an explicit output and environment.
func NewWithWriter(w io.Writer, env, component string) zerolog.Logger {
	if strings.EqualFold(env, "dev") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}

// SetLevel applies a textual level ("debug", "info", ...) globally. Unknown
// or empty levels fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
