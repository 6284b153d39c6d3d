// Package sysutil holds process bootstrap helpers shared by the riskd
// commands.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logOutput is where NewLogger writes; tests swap it.
var logOutput io.Writer = os.Stderr

// NewLogger builds the process logger and installs it as log.Logger.
// Pretty selects a human-readable console writer for local runs; otherwise
// each line is a JSON object with an RFC3339 timestamp.
func NewLogger(pretty bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = logOutput
	if pretty {
		w = zerolog.ConsoleWriter{Out: logOutput, TimeFormat: time.Kitchen, NoColor: true}
	}
	l := zerolog.New(w).With().Timestamp().Str("service", "riskd").Logger()
	log.Logger = l
	return l
}

// SetLogLevel sets the global zerolog level from a LOG_LEVEL value. Blank or
// unknown values select info; "warning" is accepted for warn.
func SetLogLevel(lvl string) {
	lvl = strings.ToLower(strings.TrimSpace(lvl))
	if lvl == "warning" {
		lvl = "warn"
	}
	l, err := zerolog.ParseLevel(lvl)
	if err != nil || l == zerolog.NoLevel {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
}
