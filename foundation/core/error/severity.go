// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick a log level when an error is
//              logged through the foundation logger.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a minor error, typically bad input
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium

	// SeverityHigh indicates a serious error such as a broken registration or store
	SeverityHigh

	// SeverityCritical indicates the process cannot continue
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeEnvironmentError:
		return SeverityCritical

	// A command that cannot be registered is never reachable.
	case CodeInvalidSpec, CodeDuplicateArgument, CodeInvalidLabel, CodeMissingHandler,
		CodeDatabaseError, CodeConnectionFailed, CodeInvalidConfig, CodeMissingConfig:
		return SeverityHigh

	case CodeNetworkError, CodeQuotaExceeded, CodeConfigError,
		CodeArgumentNotExist, CodeArgumentType:
		return SeverityMedium

	case CodeInvalidInput, CodeNotFound, CodeValidationFailed, CodeInvalidFormat,
		CodeInvalidMessage, CodeArgumentAbsent:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
