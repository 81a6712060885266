// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package auction

import (
	"fmt"
	"time"

	"github.com/dutchex/dutchex/utils"
)

// State classifies an auction instant relative to its window.
type State uint8

const (
	StatePending State = iota // now < StartTime
	StateActive               // StartTime <= now < EndTime
	StateExpired              // now >= EndTime
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateExpired:
		return "expired"
	}
	return fmt.Sprintf("state %d", uint8(s))
}

// CurrentState classifies now against the auction window.
func CurrentState(s *Spec, now time.Time) State {
	switch {
	case now.Before(s.StartTime):
		return StatePending
	case now.Before(s.EndTime):
		return StateActive
	}
	return StateExpired
}

// Progress is the elapsed fraction of the auction window as a percentage
// clamped to [0,100]. A zero-length window evaluates to 100 rather than
// dividing by zero.
func Progress(s *Spec, now time.Time) float64 {
	window := s.EndTime.Sub(s.StartTime)
	if window <= 0 {
		return 100
	}
	pct := float64(now.Sub(s.StartTime)) / float64(window) * 100
	return utils.Clamp(pct, 0, 100)
}

// PriceAt computes the instantaneous auction price: the linear interpolation
// from StartPrice to EndPrice at the current progress. If a live price is
// supplied, an externally observed execution price, it is returned verbatim,
// bypassing interpolation, so callers can reflect off-curve prices without
// mutating the spec. PriceAt is a pure function of its arguments and is
// recomputed on every call.
func PriceAt(s *Spec, now time.Time, live ...float64) float64 {
	if len(live) > 0 {
		return live[0]
	}
	return s.StartPrice - (s.StartPrice-s.EndPrice)*Progress(s, now)/100
}

// Remaining is the time left in the auction window, floored at zero.
func Remaining(s *Spec, now time.Time) time.Duration {
	return utils.Max(s.EndTime.Sub(now), 0)
}

// FormatRemaining renders a remaining duration as zero-padded HH:MM:SS.
// "00:00:00" signals an expired auction.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// Status is a point-in-time auction report.
type Status struct {
	State     State
	Progress  float64
	Price     float64
	Remaining string
}

// CurrentStatus evaluates the full point-in-time view of an auction,
// optionally with a live price override.
func CurrentStatus(s *Spec, now time.Time, live ...float64) *Status {
	return &Status{
		State:     CurrentState(s, now),
		Progress:  Progress(s, now),
		Price:     PriceAt(s, now, live...),
		Remaining: FormatRemaining(Remaining(s, now)),
	}
}
