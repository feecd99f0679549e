// Package log is the application logger. It keeps a small, package-level
// API on top of logrus so call sites stay short, and understands the typed
// errors of internal/errors when attaching them as fields.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"cobide/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a structured key/value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F creates a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log entries
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	file   *os.File
}

type options struct {
	out  io.Writer
	json bool
	file string
}

// Option configures a Logger
type Option func(*options)

// WithOutput sets the writer log entries go to (stdout by default)
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithFile appends log entries to path in addition to the output writer
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// NewLogger builds a Logger from options
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	base := logrus.New()
	base.SetLevel(logrus.DebugLevel)

	l := &Logger{base: base, fields: logrus.Fields{}}

	out := o.out
	if o.file != "" {
		if err := os.MkdirAll(filepath.Dir(o.file), 0755); err == nil {
			f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				l.file = f
				out = io.MultiWriter(o.out, f)
			}
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	logger.Close()
	logger = NewLogger(opts...)
}

// SetDebug turns debug entries on or off
func SetDebug(debug bool) {
	isDebug = debug
}

// Close releases the log file, if any
func (l *Logger) Close() {
	if l != nil && l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

// With returns a logger that adds fields to every entry
func (l *Logger) With(fields ...Field) *Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{base: l.base, fields: merged, file: l.file}
}

// WithContext is reserved for request-scoped fields; it currently adds none
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l
}

// WithError attaches err and the details of typed application errors
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

func (l *Logger) log(level logrus.Level, msg string) {
	if level == logrus.DebugLevel && !isDebug {
		return
	}
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	if _, file, line, ok := runtime.Caller(2); ok {
		fields["caller"] = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	l.base.WithFields(fields).Log(level, msg)
}

func (l *Logger) Info(args ...interface{}) {
	l.log(logrus.InfoLevel, fmt.Sprint(args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(args ...interface{}) {
	l.log(logrus.DebugLevel, fmt.Sprint(args...))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(args ...interface{}) {
	l.log(logrus.WarnLevel, fmt.Sprint(args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(args ...interface{}) {
	l.log(logrus.ErrorLevel, fmt.Sprint(args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Info logs a formatted informational message
func Info(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

// Infof logs a formatted informational message
func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	logger.log(logrus.DebugLevel, withArgs(msg, args))
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	logger.log(logrus.WarnLevel, withArgs(msg, args))
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, withArgs(msg, args))
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger with err attached
func LogWithError(err error) *Logger {
	return logger.With(errorFields(err)...)
}

// LogError logs err at error level with a message
func LogError(err error, msg string) {
	logger.With(errorFields(err)...).log(logrus.ErrorLevel, msg)
}

func withArgs(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg+": %v", args...)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", int(errors.KindOf(err))),
	}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var procErr *errors.ProcessError
	if errors.As(err, &procErr) && procErr.Command() != "" {
		fields = append(fields, F("command", procErr.Command()))
	}
	return fields
}
