package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every engine failure wraps exactly one of these.
var (
	ErrInsufficientAlternatives = errors.New("insufficient alternatives")
	ErrMissingCriterionData     = errors.New("missing criterion data")
	ErrDimensionMismatch        = errors.New("dimension mismatch")
	ErrInconsistentJudgment     = errors.New("inconsistent judgment")
	ErrInvalidParameter         = errors.New("invalid parameter")
)

// Error is a structured validation or computation failure naming the
// offending criterion and/or alternative where one exists.
type Error struct {
	Kind        error
	Criterion   string
	Alternative string
	Detail      string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Criterion != "" {
		fmt.Fprintf(&b, " (criterion %s", e.Criterion)
		if e.Alternative != "" {
			fmt.Fprintf(&b, ", alternative %s", e.Alternative)
		}
		b.WriteString(")")
	} else if e.Alternative != "" {
		fmt.Fprintf(&b, " (alternative %s)", e.Alternative)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, criterion, alternative, format string, args ...any) *Error {
	return &Error{
		Kind:        kind,
		Criterion:   criterion,
		Alternative: alternative,
		Detail:      fmt.Sprintf(format, args...),
	}
}

// KindName returns the snake_case name of err's kind, or "" if err is not an
// engine error.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientAlternatives):
		return "insufficient_alternatives"
	case errors.Is(err, ErrMissingCriterionData):
		return "missing_criterion_data"
	case errors.Is(err, ErrDimensionMismatch):
		return "dimension_mismatch"
	case errors.Is(err, ErrInconsistentJudgment):
		return "inconsistent_judgment"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return ""
	}
}

// IsValidation reports whether err is a deterministic input failure.
func IsValidation(err error) bool {
	return KindName(err) != ""
}
