package logger

// NopLogger is a logger that does nothing.
type NopLogger struct{}

// NewNop creates a new no-op logger instance.
func NewNop() Interface {
	return &NopLogger{}
}

// Debug logs a debug message.
func (l *NopLogger) Debug(msg string, fields ...any) {}

// Info logs an info message.
func (l *NopLogger) Info(msg string, fields ...any) {}

// Warn logs a warning message.
func (l *NopLogger) Warn(msg string, fields ...any) {}

// Error logs an error message.
func (l *NopLogger) Error(msg string, fields ...any) {}

// Fatal logs a fatal message.
func (l *NopLogger) Fatal(msg string, fields ...any) {}

// With returns the logger unchanged.
func (l *NopLogger) With(fields ...any) Interface { return l }

// WithComponent returns the logger unchanged.
func (l *NopLogger) WithComponent(component string) Interface { return l }

// WithError returns the logger unchanged.
func (l *NopLogger) WithError(err error) Interface { return l }
