// Package errors provides standardized error handling for cobide.
// It defines the error kinds raised by the file, configuration and process
// workflows and helper functions for consistent creation and inspection
// of those errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrQueueClosed = NewProcessError("worker queue closed", "", QueueClosed, nil)
	ErrNoActiveTab = New("no active tab")
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileCreateFailed
	FileOperationFailed
	DecodeFailed
	EncodeFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Process error kinds
	CompileFailed
	RunFailed
	QueueClosed
)

// String returns a short name for the kind, used in log fields
func (k ErrorKind) String() string {
	switch k {
	case FileNotFound:
		return "file_not_found"
	case FileAccessDenied:
		return "file_access_denied"
	case InvalidPath:
		return "invalid_path"
	case FileCreateFailed:
		return "file_create_failed"
	case FileOperationFailed:
		return "file_operation_failed"
	case DecodeFailed:
		return "decode_failed"
	case EncodeFailed:
		return "encode_failed"
	case InvalidConfig:
		return "invalid_config"
	case ConfigNotFound:
		return "config_not_found"
	case CompileFailed:
		return "compile_failed"
	case RunFailed:
		return "run_failed"
	case QueueClosed:
		return "queue_closed"
	default:
		return "unknown"
	}
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// ProcessError represents errors raised while compiling or running a program
type ProcessError struct {
	ApplicationError
	command string
}

// NewProcessError creates a new process error
func NewProcessError(msg string, command string, kind ErrorKind, err error) *ProcessError {
	return &ProcessError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		command: command,
	}
}

// Error returns the process error message
func (e *ProcessError) Error() string {
	if e.command != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.command, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.command)
	}
	return e.ApplicationError.Error()
}

// Command returns the command line associated with the error
func (e *ProcessError) Command() string {
	return e.command
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain
func KindOf(err error) ErrorKind {
	if err == nil {
		return Unknown
	}
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}

// IsDecodeFailed checks if the error reports undecodable file content
func IsDecodeFailed(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == DecodeFailed
	}
	return false
}

// IsEncodeFailed checks if the error reports text the target encoding cannot represent
func IsEncodeFailed(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == EncodeFailed
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsProcessError checks if the error came from the compiler or a program run
func IsProcessError(err error) bool {
	var procErr *ProcessError
	return errors.As(err, &procErr)
}
