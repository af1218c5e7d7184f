package util

import (
	"github.com/hauke96/sigolo/v2"
	"strings"
)

// SetLogLevel configures sigolo for one of the levels "info", "debug" or "trace". Any other value is fatal.
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	case "trace":
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	case "info":
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	default:
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", level)
	}
}

// Truncate shortens the string to at most maxRunes runes for log output.
func Truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "... [truncated]"
}
