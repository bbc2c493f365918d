// Package logger defines the structured logging contract used by the SDK.
// The rest of the module depends only on these interfaces so hosts can plug
// in their own logging backend.
package logger

import "time"

// Logger defines the contract for structured logging throughout the SDK.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent represents a structured log event that can be built with fields
// and sent with Msg/Msgf.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Int64(key string, value int64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
	Bytes(key string, val []byte) LogEvent
}
