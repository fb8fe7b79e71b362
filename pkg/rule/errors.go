package rule

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when a rule description cannot be compiled.
	ErrMalformed = errors.New("malformed rule")
	// ErrUnsupported marks an operation that is not available for a given
	// rule or pattern. Batch callers may skip the input and continue.
	ErrUnsupported = errors.New("unsupported operation")
)

// BuildError describes why a rule failed to compile.
type BuildError struct {
	Rule   string
	Reason string
}

func (e *BuildError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("malformed rule: %s", e.Reason)
	}
	return fmt.Sprintf("malformed rule %q: %s", e.Rule, e.Reason)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *BuildError) Unwrap() error { return ErrMalformed }

// UnsupportedError reports an operation that cannot be applied to a rule.
type UnsupportedError struct {
	Op   string
	Rule string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported for rule %q", e.Op, e.Rule)
}

// Unwrap lets errors.Is match ErrUnsupported.
func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// Unsupported builds an UnsupportedError for op on r.
func Unsupported(op string, r *Rule) error {
	name := ""
	if r != nil {
		name = r.String()
	}
	return &UnsupportedError{Op: op, Rule: name}
}

func malformed(name, format string, args ...any) error {
	return &BuildError{Rule: name, Reason: fmt.Sprintf(format, args...)}
}
