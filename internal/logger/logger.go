// Package logger provides structured logging for the war room behind a small
// interface, so the frame loop and the display layer never depend on a
// concrete backend.
package logger

// Logger is the logging surface used across the simulator.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field is a structured log field.
type Field struct {
	Key   string
	Value interface{}
}
