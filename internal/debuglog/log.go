package debuglog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo // Default to INFO
	}
}

var (
	currentLevel LogLevel = LevelOff
	logger       *log.Logger
	logFile      *os.File
)

// Setup configures the logging system with the specified level and optional
// file path. The TUI owns stdout, so everything goes to a file; with no path
// given it lands in the XDG state directory.
func Setup(level LogLevel, filePath ...string) error {
	currentLevel = level

	// Close existing log file if open
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if level == LevelOff {
		logger = nil
		return nil
	}

	var logPath string
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	} else {
		logPath = filepath.Join(xdg.StateHome, "riffle", "riffle.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	logger = log.New(f, "riffle ", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	currentLevel = level
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		logger = nil
		return err
	}
	return nil
}

// logf writes a log message at the specified level
func logf(level LogLevel, component, format string, args ...any) {
	if level < currentLevel || logger == nil {
		return
	}

	message := fmt.Sprintf(format, args...)
	if component != "" {
		logger.Printf("[%s] [%s] %s", level.String(), component, message)
		return
	}
	logger.Printf("[%s] %s", level.String(), message)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, "", format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, "", format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, "", format, args...)
}

func Errorf(format string, args ...any) {
	logf(LevelError, "", format, args...)
}

// Logger tags every line it writes with a component name, so grepping the
// shared log file for one subsystem stays cheap.
type Logger struct {
	component string
}

// For returns a logger tagged with the given component name.
func For(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) Debugf(format string, args ...any) {
	logf(LevelDebug, l.component, format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	logf(LevelInfo, l.component, format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	logf(LevelWarn, l.component, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	logf(LevelError, l.component, format, args...)
}
