package services

import "errors"

// Engine and session errors. Every error here is recoverable: handlers map
// them to a displayable response, nothing is fatal to the process.
var (
	// Start-time validation
	ErrInsufficientItems  = errors.New("at least 2 items are required to start a tournament")
	ErrInvalidItem        = errors.New("item id must not be empty")
	ErrDuplicateItem      = errors.New("duplicate item id in the starting list")
	ErrInvalidMode        = errors.New("unknown tournament mode")
	ErrInvalidTotalRounds = errors.New("total rounds must be at least 1 for the rating mode")

	// Transition errors
	ErrInvalidState        = errors.New("tournament state is missing or malformed")
	ErrIllegalOutcome      = errors.New("outcome is not legal for this match")
	ErrTournamentCompleted = errors.New("tournament has already finished")
)
