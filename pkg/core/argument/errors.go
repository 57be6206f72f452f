package argument

import (
	"fmt"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	TypeNotFound ErrorKind = iota
	ConversionFailed
	ArgumentTooLong
	MissingRequired
	InvalidFormat
)

func (k ErrorKind) String() string {
	switch k {
	case TypeNotFound:
		return "TYPE_NOT_FOUND"
	case ConversionFailed:
		return "CONVERSION_FAILED"
	case ArgumentTooLong:
		return "ARGUMENT_TOO_LONG"
	case MissingRequired:
		return "MISSING_REQUIRED"
	case InvalidFormat:
		return "INVALID_FORMAT"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError describes why tokens could not be bound. It is returned as a
// value inside Result and also satisfies error for callers that want one.
type ParseError struct {
	Kind     ErrorKind
	Argument string
	Input    string
	Message  string
}

func (e *ParseError) Error() string {
	if e.Argument == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: argument %q: %s", e.Kind, e.Argument, e.Message)
}

// Lookup errors returned by Arguments and the typed accessors. They are
// programmer errors and match with errors.Is.
var (
	ErrArgumentNotExist = mdwerror.New("argument is not declared").WithCode(mdwerror.CodeArgumentNotExist)
	ErrArgumentAbsent   = mdwerror.New("argument was not supplied").WithCode(mdwerror.CodeArgumentAbsent)
	ErrArgumentType     = mdwerror.New("argument has a different type").WithCode(mdwerror.CodeArgumentType)
)
