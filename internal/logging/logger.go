// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// VerboseEnv forces debug logging for every command when set to "1".
const VerboseEnv = "NEEDLES_VERBOSE"

// Verbose reports whether NEEDLES_VERBOSE=1 is set.
func Verbose() bool {
	return os.Getenv(VerboseEnv) == "1"
}

// New returns a human-readable logger on w. Unknown levels fall back to info;
// Verbose() overrides level with debug.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if Verbose() {
		lvl = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
