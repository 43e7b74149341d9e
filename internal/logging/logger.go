// Package logging provides a logging abstraction that decouples the
// pipeline from a specific logging framework, so components can be tested
// with a capturing mock while production runs on logrus.
package logging

// Logger is the structured logging interface used throughout the
// application.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log message.
type Field struct {
	Key   string
	Value interface{}
}

// Standardized field names for structured logging, kept consistent so log
// output stays easy to filter.
const (
	FieldStatement   = "statement_id"
	FieldCompany     = "company_id"
	FieldSession     = "session_id"
	FieldMatch       = "match_id"
	FieldBank        = "bank"
	FieldRow         = "row"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldStatus      = "status"
	FieldCount       = "count"
	FieldOperation   = "operation"
	FieldReason      = "reason"
	FieldFile        = "file_path"
	FieldConfidence  = "confidence"
	FieldDiscrepancy = "discrepancy"
)
