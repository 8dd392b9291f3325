// Package logger provides leveled diagnostic logging for bookworm.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// Log is the process-wide logger used by every bookworm package.
var Log = &Logger{level: LevelInfo}

type LogLevel int

const (
	LevelTrace LogLevel = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[string]LogLevel{
	"trace":   LevelTrace,
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// Logger filters messages by level and forwards them to the pterm prefix printers.
type Logger struct {
	level LogLevel
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.level <= LevelTrace {
		pterm.Debug.Printfln(format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		pterm.Debug.Printfln(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		pterm.Info.Printfln(format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		pterm.Warning.Printfln(format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.level <= LevelError {
		pterm.Error.Printfln(format, args...)
	}
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	pterm.Error.Printfln(format, args...)
	os.Exit(1)
}

func (l *Logger) Debug(args ...interface{}) {
	if l.level <= LevelDebug {
		pterm.Debug.Println(args...)
	}
}

func (l *Logger) Info(args ...interface{}) {
	if l.level <= LevelInfo {
		pterm.Info.Println(args...)
	}
}

func (l *Logger) Warn(args ...interface{}) {
	if l.level <= LevelWarn {
		pterm.Warning.Println(args...)
	}
}

func (l *Logger) Error(args ...interface{}) {
	if l.level <= LevelError {
		pterm.Error.Println(args...)
	}
}

// Level returns the active level.
func (l *Logger) Level() LogLevel {
	return l.level
}

// SetLevel parses a level name (case-insensitive) and applies it to Log.
func SetLevel(level string) error {
	parsed, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return fmt.Errorf("invalid log level: %s", level)
	}

	Log.SetLevel(parsed)

	return nil
}

// SetLevel applies level directly, toggling pterm debug output to match.
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	if level <= LevelDebug {
		pterm.EnableDebugMessages()
	} else {
		pterm.DisableDebugMessages()
	}
}

// RedirectTo sends all diagnostic printers to w. The terminal UI uses it to keep
// log lines off the screen while tview owns the terminal.
func RedirectTo(w io.Writer) {
	pterm.Info.Writer = w
	pterm.Success.Writer = w
	pterm.Warning.Writer = w
	pterm.Error.Writer = w
	pterm.Debug.Writer = w
}
