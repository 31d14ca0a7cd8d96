package advance

import (
	"errors"
	"strings"
)

var (
	ErrAdvanceNotFound         = errors.New("advance not found")
	ErrInvalidStatusTransition = errors.New("invalid advance status transition")
	ErrNotEligible             = errors.New("driver is not eligible for an advance")
)

// NotEligibleError carries the restrictions that blocked a request.
type NotEligibleError struct {
	Restrictions []Restriction
}

func (e *NotEligibleError) Error() string {
	codes := make([]string, 0, len(e.Restrictions))
	for _, r := range e.Restrictions {
		codes = append(codes, r.Code)
	}
	return ErrNotEligible.Error() + ": " + strings.Join(codes, ", ")
}

func (e *NotEligibleError) Is(target error) bool {
	return target == ErrNotEligible
}
