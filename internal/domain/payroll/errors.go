package payroll

import "errors"

var (
	ErrInvalidPeriod        = errors.New("invalid payroll period")
	ErrConfigurationMissing = errors.New("payroll configuration is missing")
)
