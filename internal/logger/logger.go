package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelSuccess
	LevelError
)

var levelNames = map[LogLevel]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarn:    "WARN",
	LevelError:   "ERROR",
	LevelSuccess: "SUCCESS",
}

var levelColors = map[LogLevel]string{
	LevelDebug:   "\033[36m",   // Cyan
	LevelInfo:    "\033[32m",   // Green
	LevelWarn:    "\033[33m",   // Yellow
	LevelError:   "\033[31m",   // Red
	LevelSuccess: "\033[32;1m", // Bright Green
}

// Logger is the main logger struct
type Logger struct {
	mu       sync.Mutex
	minLevel LogLevel
	logger   *log.Logger
	prefix   string
}

// New creates a new Logger instance
func New(out io.Writer, prefix string, minLevel LogLevel) *Logger {
	return &Logger{
		minLevel: minLevel,
		logger:   log.New(out, "", log.Ldate|log.Ltime),
		prefix:   prefix,
	}
}

// PackageLogger creates a logger tagged with a package display name. The
// logger follows any later TeeToFile call.
func PackageLogger(displayName string) *Logger {
	outputMu.Lock()
	defer outputMu.Unlock()
	l := New(sharedOutput, displayName, LevelInfo)
	registered = append(registered, l)
	return l
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// SetOutput sets the output destination
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(w)
}

// Log logs a message at a specific level
func (l *Logger) Log(level LogLevel, msg string, args ...interface{}) {
	if level < l.minLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s%s\033[0m", levelColors[level], levelNames[level])
	if l.prefix != "" {
		line += " [" + l.prefix + "]"
	}
	line += " " + fmt.Sprintf(msg, args...)

	l.logger.Println(line)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.Log(LevelDebug, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.Log(LevelInfo, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.Log(LevelWarn, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...interface{}) {
	l.Log(LevelError, msg, args...)
}

// Success logs a success message
func (l *Logger) Success(msg string, args ...interface{}) {
	l.Log(LevelSuccess, msg, args...)
}

var (
	outputMu      sync.Mutex
	sharedOutput  io.Writer = os.Stdout
	sharedLogFile string
	registered    []*Logger
)

// TeeToFile opens a timestamped log file under dir and duplicates all further
// output of every package logger to it. Returns the file path so fatal
// messages can point the user at it.
func TeeToFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create log directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("dockship-%s.log", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("open log file %s: %w", path, err)
	}

	outputMu.Lock()
	sharedOutput = io.MultiWriter(os.Stdout, f)
	sharedLogFile = path
	for _, l := range registered {
		l.SetOutput(sharedOutput)
	}
	outputMu.Unlock()

	return path, nil
}

// LogFile returns the path of the active log file, if any.
func LogFile() string {
	outputMu.Lock()
	defer outputMu.Unlock()
	return sharedLogFile
}

// Output returns a writer that remote command output can be streamed to so it
// lands in the same places as log lines.
func Output() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		outputMu.Lock()
		w := sharedOutput
		outputMu.Unlock()
		return w.Write(p)
	})
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
