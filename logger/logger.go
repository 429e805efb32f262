package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level defines the log level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the level tag used in output lines
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name; unknown names fall back to info
func ParseLevel(levelStr string) Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

var (
	mu           sync.RWMutex
	currentLevel = InfoLevel
	std          = log.New(os.Stderr, "", log.LstdFlags)
)

// SetLevel sets the global log level by name
func SetLevel(levelStr string) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = ParseLevel(levelStr)
}

// SetOutput sets the output destination for the logger
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Debug logs a message at DebugLevel
func Debug(v ...any) {
	logAt(DebugLevel, fmt.Sprint(v...))
}

// Debugf logs a formatted message at DebugLevel
func Debugf(format string, v ...any) {
	logAt(DebugLevel, fmt.Sprintf(format, v...))
}

// Info logs a message at InfoLevel
func Info(v ...any) {
	logAt(InfoLevel, fmt.Sprint(v...))
}

// Infof logs a formatted message at InfoLevel
func Infof(format string, v ...any) {
	logAt(InfoLevel, fmt.Sprintf(format, v...))
}

// Warn logs a message at WarnLevel
func Warn(v ...any) {
	logAt(WarnLevel, fmt.Sprint(v...))
}

// Warnf logs a formatted message at WarnLevel
func Warnf(format string, v ...any) {
	logAt(WarnLevel, fmt.Sprintf(format, v...))
}

// Error logs a message at ErrorLevel
func Error(v ...any) {
	logAt(ErrorLevel, fmt.Sprint(v...))
}

// Errorf logs a formatted message at ErrorLevel
func Errorf(format string, v ...any) {
	logAt(ErrorLevel, fmt.Sprintf(format, v...))
}

// Fatal logs a message at FatalLevel and exits
func Fatal(v ...any) {
	logAt(FatalLevel, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf logs a formatted message at FatalLevel and exits
func Fatalf(format string, v ...any) {
	logAt(FatalLevel, fmt.Sprintf(format, v...))
	os.Exit(1)
}

func logAt(level Level, msg string) {
	mu.RLock()
	enabled := level >= currentLevel
	mu.RUnlock()
	if !enabled {
		return
	}
	// Output depth 3: logAt -> exported wrapper -> caller
	std.Output(3, fmt.Sprintf("[%s] %s", level, msg))
}
