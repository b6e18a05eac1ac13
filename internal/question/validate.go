package question

import (
	"errors"
	"fmt"
)

var (
	ErrMixedItems        = errors.New("options and subQuestions both populated")
	ErrAnswerNotOption   = errors.New("multiple-choice answer is not an option label")
	ErrBadTrueFalse      = errors.New("true-false answer must be true or false")
	ErrUnknownType       = errors.New("unknown question type")
	ErrInvalidNumber     = errors.New("question number must be positive")
	ErrIDMismatch        = errors.New("id does not match module and number")
	ErrDuplicateQuestion = errors.New("duplicate module and number")
)

// Validate checks the record-level invariants of q and returns every violation found.
func Validate(q Question) []error {
	var errs []error
	if q.Number <= 0 {
		errs = append(errs, fmt.Errorf("%s: %w", q.ID, ErrInvalidNumber))
	}
	if q.ID != ID(q.Module, q.Number) {
		errs = append(errs, fmt.Errorf("%s: %w", q.ID, ErrIDMismatch))
	}
	if len(q.Options) > 0 && len(q.SubQuestions) > 0 {
		errs = append(errs, fmt.Errorf("%s: %w", q.ID, ErrMixedItems))
	}
	switch q.Type {
	case TypeMultipleChoice:
		if q.Answer != nil && (len(*q.Answer) != 1 || !q.HasOption(*q.Answer)) {
			errs = append(errs, fmt.Errorf("%s: %w: %q", q.ID, ErrAnswerNotOption, *q.Answer))
		}
	case TypeTrueFalse:
		if q.Answer != nil && *q.Answer != "true" && *q.Answer != "false" {
			errs = append(errs, fmt.Errorf("%s: %w: %q", q.ID, ErrBadTrueFalse, *q.Answer))
		}
	case TypeMultiPart, TypeOpenEnded:
	default:
		errs = append(errs, fmt.Errorf("%s: %w: %q", q.ID, ErrUnknownType, q.Type))
	}
	return errs
}

// ValidateCollection checks every record plus (module, number) uniqueness across qs.
func ValidateCollection(qs []Question) []error {
	var errs []error
	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		errs = append(errs, Validate(q)...)
		key := ID(q.Module, q.Number)
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%s: %w", key, ErrDuplicateQuestion))
			continue
		}
		seen[key] = struct{}{}
	}
	return errs
}
