package service

import "errors"

var (
	// ErrValidation wraps request payloads that fail field validation.
	ErrValidation = errors.New("invalid request")

	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidRole is returned for roles outside Homeowner/PropertyManager.
	ErrInvalidRole = errors.New("auth: invalid role")

	// ErrForbidden is returned when a user asks for a property outside
	// their ownership or portfolio.
	ErrForbidden = errors.New("property access denied")
	// ErrNoProperties is returned when a user has no properties at all.
	ErrNoProperties = errors.New("no properties found for user")
	// ErrPropertyRequired is returned when a property id is needed to
	// disambiguate the request.
	ErrPropertyRequired = errors.New("property id is required")

	// ErrNoUsageData is returned when a scenario window holds no readings.
	ErrNoUsageData = errors.New("no usage data in window")
	// ErrInvalidWindow is returned for from/to ranges that do not make sense.
	ErrInvalidWindow = errors.New("invalid time window")
	// ErrUnknownMeter is returned for readings whose MPAN matches no property.
	ErrUnknownMeter = errors.New("unknown meter")
)
