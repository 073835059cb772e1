package logger

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// Setup configures the process-wide logger. format is "json" or
// "console"; unknown levels fall back to info.
func Setup(level, format string) {
	SetupWriter(level, format, os.Stderr)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(level, format string, out io.Writer) {
	var w log.Writer
	if format == "json" {
		w = &log.IOWriter{Writer: out}
	} else {
		w = &log.ConsoleWriter{
			Writer:         out,
			ColorOutput:    out == os.Stderr || out == os.Stdout,
			QuoteString:    true,
			EndWithMessage: true,
		}
	}
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Writer:     w,
	}
}
