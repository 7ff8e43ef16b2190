package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects how the global logger writes.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // console, json
	NoColor bool
}

// InitDefault sets up a console logger before flags are parsed, so that
// failures during flag/config handling are still readable.
func InitDefault() {
	log.Logger = log.Output(consoleWriter(false))
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger from the resolved options.
func Init(opts *Options) {
	if opts == nil {
		opts = &Options{}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(opts.Format) == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(consoleWriter(opts.NoColor))
}

func consoleWriter(noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}
}
