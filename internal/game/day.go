package game

import "github.com/panembot/games-server/internal/domain/event"

// Day state machine. A day moves strictly forward:
//
//	NotStarted(0) -> Simulating(1) -> Revealing(2..2+k) -> NotStarted(0)
//
// where k is the number of buffered Final Events. Only a host abort may
// skip states.
const (
	DayNotStarted = 0
	DaySimulating = 1
	DayRevealBase = 2
)

// Day is one simulated day of a game. Day 0 is the bloodbath.
type Day struct {
	Num    int                `json:"num"`
	State  int                `json:"state"`
	Events []event.FinalEvent `json:"events"`
}

// NewDay returns a day that has not started yet. Num starts at -1 so the
// first StartDay increments it to the bloodbath day 0.
func NewDay() *Day {
	return &Day{Num: -1, State: DayNotStarted}
}

// Revealed returns how many Final Events have been revealed so far.
func (d *Day) Revealed() int {
	if d.State < DayRevealBase {
		return 0
	}
	return d.State - DayRevealBase
}

// HasMoreReveals reports whether another Final Event is still buffered.
func (d *Day) HasMoreReveals() bool {
	return d.State >= DayRevealBase && d.Revealed() < len(d.Events)
}
