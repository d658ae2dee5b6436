package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// ParseLevel maps a LOG_LEVEL value onto a gommon level. Empty means info.
func ParseLevel(s string) (log.Lvl, error) {
	if s == "" {
		return log.INFO, nil
	}
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return log.INFO, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// Logger builds the process logger. Output goes to stdout unless
// logFilePath is set, in which case a file named after the current day is used.
func Logger(logFilePath, level string) *lecho.Logger {
	lvl, lvlErr := ParseLevel(level)
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(lvl),
		lecho.WithTimestamp(),
	)
	if lvlErr != nil {
		logger.Warnf("%v, falling back to info", lvlErr)
	}
	if logFilePath == "" {
		return logger
	}
	file, err := OpenDatedFile(logFilePath, time.Now())
	if err != nil {
		logger.Errorf("failed to create logging file: %v", err)
		return logger
	}
	logger.SetOutput(file)
	return logger
}

// DatedPath inserts the day of t before the extension of path, or appends
// it plus ".log" when path has none.
func DatedPath(path string, t time.Time) string {
	day := t.Format("-2006-01-02")
	if ext := filepath.Ext(path); ext != "" {
		return strings.TrimSuffix(path, ext) + day + ext
	}
	return path + day + ".log"
}

func OpenDatedFile(path string, t time.Time) (*os.File, error) {
	return os.OpenFile(DatedPath(path, t), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
}
