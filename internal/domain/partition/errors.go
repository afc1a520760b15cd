package partition

import "errors"

// Sentinel kinds for roster validation. Wrapped errors carry the detail;
// callers match with errors.Is.
var (
	ErrInvalidRosterSize = errors.New("invalid roster size")
	ErrDuplicatePlayer   = errors.New("duplicate player")
	ErrEmptyPlayerID     = errors.New("empty player id")
	ErrInvalidWinRatio   = errors.New("invalid win ratio")
)

// Code maps a validation error to a stable snake_case code for metrics
// labels and API responses. Unknown errors map to "".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRosterSize):
		return "invalid_roster_size"
	case errors.Is(err, ErrDuplicatePlayer):
		return "duplicate_player"
	case errors.Is(err, ErrEmptyPlayerID), errors.Is(err, ErrInvalidWinRatio):
		return "invalid_player"
	default:
		return ""
	}
}
