/*
Package logger
File: logger.go
Description:
    The process-wide structured logger. Init is called once from main;
    everything else either uses Log directly or is handed a FieldLogger
    derived from it.
*/

package logger

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init, writing at info level.
var Log = logrus.New()

// Init configures Log from the environment:
// LOG_LEVEL (default "info") and LOG_FORMAT ("json" or "text").
func Init() {
	Configure(os.Stdout, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure sets up Log explicitly. Unknown levels fall back to info.
func Configure(out io.Writer, level, format string) {
	// 1. Level
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// 2. Formatter. Colours only on a real terminal.
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   isTerminal(out),
		})
	}

	// 3. Output
	Log.SetOutput(out)
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
