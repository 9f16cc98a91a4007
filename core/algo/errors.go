package algo

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a ranking failure.
type Kind string

// All failure kinds reported by the ranking pipeline.
const (
	KindEmptyMatrix          Kind = "empty_matrix"
	KindInsufficientCriteria Kind = "insufficient_criteria"
	KindWeightCountMismatch  Kind = "weight_count_mismatch"
	KindImpactCountMismatch  Kind = "impact_count_mismatch"
	KindInvalidImpactTag     Kind = "invalid_impact_tag"
	KindNonNumericValue      Kind = "non_numeric_value"
	KindRaggedRow            Kind = "ragged_row"
	KindInvalidWeight        Kind = "invalid_weight"
	KindZeroVarianceColumn   Kind = "zero_variance_column"
	KindDegenerateDistance   Kind = "degenerate_distance"
)

// Error is a typed ranking failure. Row and Column are 0-based indexes;
// the message prints them 1-based.
type Error struct {
	Kind     Kind
	Row      int
	Column   int
	Expected int
	Actual   int
	Value    string
}

// Sentinels for errors.Is matching. Only the Kind is compared.
var (
	ErrEmptyMatrix          = &Error{Kind: KindEmptyMatrix}
	ErrInsufficientCriteria = &Error{Kind: KindInsufficientCriteria}
	ErrWeightCountMismatch  = &Error{Kind: KindWeightCountMismatch}
	ErrImpactCountMismatch  = &Error{Kind: KindImpactCountMismatch}
	ErrInvalidImpactTag     = &Error{Kind: KindInvalidImpactTag}
	ErrNonNumericValue      = &Error{Kind: KindNonNumericValue}
	ErrRaggedRow            = &Error{Kind: KindRaggedRow}
	ErrInvalidWeight        = &Error{Kind: KindInvalidWeight}
	ErrZeroVarianceColumn   = &Error{Kind: KindZeroVarianceColumn}
	ErrDegenerateDistance   = &Error{Kind: KindDegenerateDistance}
)

// ErrNumericOverflow is returned when a column norm or a distance is not finite.
// It is an internal failure, not a property of malformed input.
var ErrNumericOverflow = errors.New("numeric overflow while computing norms or distances")

func (e *Error) Error() string {
	switch e.Kind {
	case KindEmptyMatrix:
		return "input file must contain at least one alternative row"
	case KindInsufficientCriteria:
		return fmt.Sprintf("input file must contain three or more criteria columns (found %d)", e.Actual)
	case KindWeightCountMismatch:
		return fmt.Sprintf("number of weights (%d) must match the number of criteria (%d)", e.Actual, e.Expected)
	case KindImpactCountMismatch:
		return fmt.Sprintf("number of impacts (%d) must match the number of criteria (%d)", e.Actual, e.Expected)
	case KindInvalidImpactTag:
		return fmt.Sprintf("impacts must be either '+' or '-' (found %q)", e.Value)
	case KindNonNumericValue:
		return fmt.Sprintf("value %q at row %d, column %d is not a finite number", e.Value, e.Row+1, e.Column+1)
	case KindRaggedRow:
		return fmt.Sprintf("row %d has %d values but %d criteria are defined", e.Row+1, e.Actual, e.Expected)
	case KindInvalidWeight:
		return fmt.Sprintf("weight %d must be a finite number greater than zero (found %s)", e.Column+1, e.Value)
	case KindZeroVarianceColumn:
		return fmt.Sprintf("criterion column %d has a zero norm (every value is 0), normalization would divide by zero", e.Column+1)
	case KindDegenerateDistance:
		return fmt.Sprintf("alternative at row %d is equidistant at zero from the ideal and anti-ideal solutions", e.Row+1)
	default:
		return fmt.Sprintf("ranking failed: %s", e.Kind)
	}
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// IsInputError reports whether err was caused by malformed input rather
// than an internal failure.
func IsInputError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
