package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrForbidden        = errors.New("action forbidden")
)

// RuleViolationError is the business-rule failure family. It carries a summary
// message plus the ordered list of individual violations. Workflows return it
// for every expected rule breach; callers branch with errors.As instead of
// inspecting strings.
type RuleViolationError struct {
	Message    string
	Violations []string
}

func NewRuleViolationError(message string, violations ...string) *RuleViolationError {
	return &RuleViolationError{Message: message, Violations: violations}
}

func (e *RuleViolationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Violations, "; "))
}

// IsRuleViolation reports whether err belongs to the business-rule failure
// family.
func IsRuleViolation(err error) bool {
	var rve *RuleViolationError
	return errors.As(err, &rve)
}
