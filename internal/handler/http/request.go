package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
)

// currentPrincipal reads the caller; the router guarantees AuthRequired ran.
func currentPrincipal(r *http.Request) (auth.Principal, error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return principal, nil
}

// periodFromQuery reads ?year=&month=, defaulting each missing value to the
// month of now. Callers pass now in the reference zone.
func periodFromQuery(r *http.Request, now time.Time) (int, int, error) {
	year, month := now.Year(), int(now.Month())
	var errs validator.ValidationErrors

	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a number"})
		}
		year = parsed
	}
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a number"})
		}
		month = parsed
	}

	if len(errs) > 0 {
		return 0, 0, errs
	}
	return year, month, nil
}

func uuidParam(field, value string) error {
	if !validator.IsValidUUID(value) {
		return validator.ValidationErrors{{Field: field, Message: "must be a valid UUID"}}
	}
	return nil
}
