// Package diagnostics formats the small amount of human-facing output the
// add and run subcommands emit directly to the console (as opposed to the
// rotating log files internal/logging manages).
package diagnostics

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// Mode controls ANSI color output.
type Mode int

const (
	Auto Mode = iota
	On
	Off
)

// Resolve determines whether to emit ANSI color codes. Priority:
// SHAWL_COLOR env > NO_COLOR env > auto-detect stderr TTY.
func Resolve() Mode {
	if v := os.Getenv("SHAWL_COLOR"); v != "" {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "on":
			return On
		case "0", "false", "no", "off":
			return Off
		}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return Off
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return On
	}
	return Off
}

func Red(s string, m Mode) string {
	if m == On {
		return "\033[31m" + s + "\033[0m"
	}
	return s
}

func Bold(s string, m Mode) string {
	if m == On {
		return "\033[1m" + s + "\033[0m"
	}
	return s
}
