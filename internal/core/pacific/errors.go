package pacific

import perr "fleetdash/internal/platform/errors"

var (
	// ErrInvalidRange is returned when a custom range has start after end or is missing a bound
	ErrInvalidRange = perr.New(perr.ErrorCodeInvalidArgument, "invalid range")

	// ErrInvalidInstant is returned for instant or date strings that do not parse
	ErrInvalidInstant = perr.New(perr.ErrorCodeInvalidArgument, "invalid instant")
)
