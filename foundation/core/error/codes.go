// File: codes.go
// Title: Error Code Definitions
// Description: Standardised error codes used across cmdcore. Codes let hosts
//              tell registration mistakes apart from infrastructure failures
//              without string matching.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Command registration (configuration tier)
	CodeInvalidSpec       Code = "INVALID_SPEC"
	CodeDuplicateArgument Code = "DUPLICATE_ARGUMENT"
	CodeInvalidLabel      Code = "INVALID_LABEL"
	CodeMissingHandler    Code = "MISSING_HANDLER"

	// Argument access from handlers (programmer errors)
	CodeArgumentNotExist Code = "ARGUMENT_NOT_EXIST"
	CodeArgumentAbsent   Code = "ARGUMENT_ABSENT"
	CodeArgumentType     Code = "ARGUMENT_TYPE"

	// Storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"

	// Transport
	CodeNetworkError   Code = "NETWORK_ERROR"
	CodeQuotaExceeded  Code = "QUOTA_EXCEEDED"
	CodeInvalidMessage Code = "INVALID_MESSAGE"

	// Configuration and environment
	CodeConfigError      Code = "CONFIG_ERROR"
	CodeMissingConfig    Code = "MISSING_CONFIG"
	CodeInvalidConfig    Code = "INVALID_CONFIG"
	CodeEnvironmentError Code = "ENVIRONMENT_ERROR"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeInvalidSpec, CodeDuplicateArgument, CodeInvalidLabel, CodeMissingHandler,
		CodeArgumentNotExist, CodeArgumentAbsent, CodeArgumentType,
		CodeDatabaseError, CodeConnectionFailed,
		CodeNetworkError, CodeQuotaExceeded, CodeInvalidMessage,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeEnvironmentError,
		CodeValidationFailed, CodeInvalidFormat:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeInvalidSpec, CodeDuplicateArgument, CodeInvalidLabel, CodeMissingHandler:
		return "registration"
	case CodeArgumentNotExist, CodeArgumentAbsent, CodeArgumentType:
		return "arguments"
	case CodeDatabaseError, CodeConnectionFailed:
		return "database"
	case CodeNetworkError, CodeQuotaExceeded, CodeInvalidMessage:
		return "transport"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig, CodeEnvironmentError:
		return "configuration"
	case CodeValidationFailed, CodeInvalidFormat, CodeInvalidInput:
		return "validation"
	default:
		return "generic"
	}
}
