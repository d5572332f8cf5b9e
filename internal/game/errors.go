package game

import (
	"errors"
	"fmt"
)

// Sentinel errors crossing the host boundary. Recoverable ones leave the
// game state untouched; ErrNoValidEvent aborts the current day but keeps
// the effects of events already applied that day.
var (
	// ErrAlreadyInProgress is returned by StartDay while a day is still
	// simulating or revealing.
	ErrAlreadyInProgress = errors.New("a day is already in progress")

	// ErrNoValidEvent is returned when the selector exhausts its retry
	// budget without finding a template that satisfies all constraints.
	ErrNoValidEvent = errors.New("no valid event for the remaining players")

	// ErrInvalidOption is returned for an unknown option name or a value
	// of the wrong type.
	ErrInvalidOption = errors.New("invalid option")

	// ErrGameEnded is returned for operations on a finished game.
	ErrGameEnded = errors.New("the game has ended")

	// ErrGameInProgress is returned for roster or team edits while a
	// game is running.
	ErrGameInProgress = errors.New("the game is in progress")

	// ErrNoSuchGame is returned by the manager for an unknown instance.
	ErrNoSuchGame = errors.New("no such game")

	// ErrTeamInconsistency signals a player reachable from no team while
	// teams are enabled. The simulator logs it and self-heals by
	// re-forming teams; it never silently ignores it.
	ErrTeamInconsistency = errors.New("player not assigned to any team")
)

// InvariantError reports a broken internal consistency rule, e.g. a
// numAlive counter diverging from the set of living players. These are
// bugs to be caught by tests, not conditions handled at runtime.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Detail)
}
