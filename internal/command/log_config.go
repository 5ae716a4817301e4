package command

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// logFlags are the logging flags shared by commands that run bindings.
type logFlags struct {
	level     string
	file      string
	maxSizeMB int
	maxFiles  int
}

func (f *logFlags) setup(fs *flag.FlagSet) {
	fs.StringVar(&f.level, "log-level", "info", "Log level: debug, info, warn or error")
	fs.StringVar(&f.file, "log-file", "", "Write logs to this file instead of stderr")
	fs.IntVar(&f.maxSizeMB, "log-max-size-mb", 10, "Rotate the log file after this many megabytes")
	fs.IntVar(&f.maxFiles, "log-max-files", 5, "Rotated log files to keep")
}

// logConfig holds resolved logging configuration.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if logging to stderr
}

// parseLevel maps a level name onto slog.
func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

// resolveLogConfig resolves logging from flags. The caller must Close the
// returned logFile when it is non-nil.
func resolveLogConfig(f logFlags) (logConfig, error) {
	var lc logConfig
	level, err := parseLevel(f.level)
	if err != nil {
		return lc, err
	}
	lc.level = level

	if f.file != "" {
		w, err := newRotatingWriter(f.file, f.maxSizeMB, f.maxFiles)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", f.file, err)
		}
		lc.logFile = w
	}
	return lc, nil
}

// logger builds the text logger for lc, writing to stderr unless a log
// file is configured.
func (lc logConfig) logger(stderr io.Writer) *slog.Logger {
	out := stderr
	if lc.logFile != nil {
		out = lc.logFile
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lc.level}))
}

func (lc logConfig) close() {
	if lc.logFile != nil {
		_ = lc.logFile.Close()
	}
}
