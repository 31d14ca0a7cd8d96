package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/advance"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/driver"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/domain/shift"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/money"
	"github.com/cmlabs-hris/fleet-payroll-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Period errors wrap their validation detail and still answer 400.
	if errors.Is(err, payroll.ErrInvalidPeriod) {
		var details map[string]string
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details = validationErrs.ToMap()
		}
		BadRequest(w, "Invalid payroll period", details)
		return
	}

	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var notEligible *advance.NotEligibleError
	if errors.As(err, &notEligible) {
		Unprocessable(w, "NOT_ELIGIBLE", "Driver is not eligible for an advance", restrictions(notEligible.Restrictions))
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAdminPrivilegeRequired),
		errors.Is(err, auth.ErrDriverAccessRequired),
		errors.Is(err, auth.ErrInsufficientPermission):
		Forbidden(w, err.Error())

	// Driver domain errors
	case errors.Is(err, driver.ErrDriverNotFound):
		NotFound(w, "Driver not found")
	case errors.Is(err, driver.ErrDriverInactive):
		Forbidden(w, "Driver is not active")

	// Shift domain errors
	case errors.Is(err, shift.ErrOdometerRegression):
		var details map[string]string
		var regression *shift.OdometerRegressionError
		if errors.As(err, &regression) {
			details = map[string]string{"odometer": regression.Error()}
		}
		BadRequest(w, "Odometer reading is lower than the previous reading", details)
	case errors.Is(err, shift.ErrInvalidClockOut):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrActiveShiftExists):
		Conflict(w, "Driver already has an active shift")
	case errors.Is(err, shift.ErrNoActiveShift):
		Conflict(w, "Driver has no active shift")
	case errors.Is(err, shift.ErrShiftStillActive):
		Conflict(w, "Active shift cannot be edited")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrConfigurationMissing):
		ServiceUnavailable(w, "Payroll configuration is missing")

	// Advance domain errors
	case errors.Is(err, advance.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")
	case errors.Is(err, advance.ErrInvalidStatusTransition):
		Conflict(w, "Advance cannot move to the requested status")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

type restrictionBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Limit   interface{} `json:"limit"`
}

func restrictions(rs []advance.Restriction) map[string]interface{} {
	out := make([]restrictionBody, 0, len(rs))
	for _, r := range rs {
		out = append(out, restrictionBody{Code: r.Code, Message: r.Message, Limit: money.Round2(r.Limit)})
	}
	return map[string]interface{}{"restrictions": out}
}
