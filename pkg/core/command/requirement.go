package command

import "github.com/msto63/cmdcore/pkg/core/sender"

// Requirement is a sender-side precondition checked before arguments are
// parsed. Check must be pure and fast.
type Requirement interface {
	Check(s sender.Sender) bool
	ErrorMessage() string
}

type requirementFunc struct {
	check   func(sender.Sender) bool
	message string
}

func (r requirementFunc) Check(s sender.Sender) bool { return r.check(s) }
func (r requirementFunc) ErrorMessage() string      { return r.message }

// Require builds a Requirement from a predicate and the message reported
// when it fails.
func Require(message string, check func(sender.Sender) bool) Requirement {
	return requirementFunc{check: check, message: message}
}

// SenderIs requires the sender's concrete type to be T.
func SenderIs[T sender.Sender](message string) Requirement {
	return Require(message, func(s sender.Sender) bool {
		_, ok := s.(T)
		return ok
	})
}
