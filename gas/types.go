// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package gas tracks transaction-fee price tiers and network congestion for
// a settlement chain, maintaining a bounded trailing history from which it
// derives trend and statistics used to bias Dutch auction price bounds.
package gas

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/dutchex/dutchex"
)

const (
	// ErrUnknownTier is returned when a price is requested for a fee tier
	// that optimal pricing does not serve.
	ErrUnknownTier = dutchex.ErrorKind("unknown fee tier")
	// ErrMalformedSnapshot is returned for a fetched fee tier snapshot that
	// violates the slow ≤ standard ≤ fast ≤ instant ordering or carries a
	// negative amount.
	ErrMalformedSnapshot = dutchex.ErrorKind("malformed fee tier snapshot")
)

// Tier represents increasingly aggressive priority for transaction inclusion.
type Tier uint8

const (
	TierSlow Tier = iota
	TierStandard
	TierFast
	TierInstant
)

var tierNames = map[Tier]string{
	TierSlow:     "slow",
	TierStandard: "standard",
	TierFast:     "fast",
	TierInstant:  "instant",
}

func (t Tier) String() string {
	if name, found := tierNames[t]; found {
		return name
	}
	return fmt.Sprintf("tier %d", uint8(t))
}

// ParseTier converts a tier name to its Tier.
func ParseTier(s string) (Tier, error) {
	for tier, name := range tierNames {
		if name == strings.ToLower(s) {
			return tier, nil
		}
	}
	return 0, dutchex.NewError(ErrUnknownTier, s)
}

// FeeTierSnapshot is one view of the chain's fee price tiers. All amounts are
// in the chain's smallest fee unit. A snapshot is immutable once captured.
// It is superseded by newer snapshots, never mutated.
type FeeTierSnapshot struct {
	Slow        *big.Int
	Standard    *big.Int
	Fast        *big.Int
	Instant     *big.Int
	BaseFee     *big.Int
	PriorityFee *big.Int
	BlockNumber uint64
	Stamp       time.Time
}

// Tier returns the price for the specified tier.
func (s *FeeTierSnapshot) Tier(t Tier) *big.Int {
	switch t {
	case TierSlow:
		return s.Slow
	case TierStandard:
		return s.Standard
	case TierFast:
		return s.Fast
	case TierInstant:
		return s.Instant
	}
	return nil
}

// Validate checks that all amounts are present and non-negative and that the
// tiers are monotonically ordered slow ≤ standard ≤ fast ≤ instant. Tier
// ordering is the source feed's responsibility. A snapshot that fails here is
// rejected rather than resorted.
func (s *FeeTierSnapshot) Validate() error {
	for _, v := range []*big.Int{s.Slow, s.Standard, s.Fast, s.Instant, s.BaseFee, s.PriorityFee} {
		if v == nil {
			return dutchex.NewError(ErrMalformedSnapshot, "missing fee amount")
		}
		if v.Sign() < 0 {
			return dutchex.NewError(ErrMalformedSnapshot, "negative fee amount")
		}
	}
	if s.Slow.Cmp(s.Standard) > 0 || s.Standard.Cmp(s.Fast) > 0 || s.Fast.Cmp(s.Instant) > 0 {
		return dutchex.NewError(ErrMalformedSnapshot,
			fmt.Sprintf("tiers out of order: %s / %s / %s / %s", s.Slow, s.Standard, s.Fast, s.Instant))
	}
	return nil
}

// Copy creates a deep copy of the snapshot. Readers always receive copies so
// that tracker-owned state can never be observed mid-update or mutated.
func (s *FeeTierSnapshot) Copy() *FeeTierSnapshot {
	return &FeeTierSnapshot{
		Slow:        new(big.Int).Set(s.Slow),
		Standard:    new(big.Int).Set(s.Standard),
		Fast:        new(big.Int).Set(s.Fast),
		Instant:     new(big.Int).Set(s.Instant),
		BaseFee:     new(big.Int).Set(s.BaseFee),
		PriorityFee: new(big.Int).Set(s.PriorityFee),
		BlockNumber: s.BlockNumber,
		Stamp:       s.Stamp,
	}
}

// CongestionLevel is an ordered classification of network load.
type CongestionLevel uint8

const (
	CongestionLow CongestionLevel = iota
	CongestionMedium
	CongestionHigh
	CongestionExtreme
)

var congestionNames = map[CongestionLevel]string{
	CongestionLow:     "low",
	CongestionMedium:  "medium",
	CongestionHigh:    "high",
	CongestionExtreme: "extreme",
}

func (l CongestionLevel) String() string {
	if name, found := congestionNames[l]; found {
		return name
	}
	return fmt.Sprintf("level %d", uint8(l))
}

// LevelForScore is the authoritative mapping from a congestion score in [0,1]
// to a CongestionLevel, used wherever only the level is needed.
func LevelForScore(score float64) CongestionLevel {
	switch {
	case score < 0.3:
		return CongestionLow
	case score < 0.6:
		return CongestionMedium
	case score < 0.8:
		return CongestionHigh
	default:
		return CongestionExtreme
	}
}

// CongestionSnapshot is one view of network load on the settlement chain.
type CongestionSnapshot struct {
	// Level is always consistent with Score under LevelForScore. The tracker
	// re-derives it on ingestion.
	Level CongestionLevel
	// Score is a normalized load measure in [0,1].
	Score float64
	// PendingTxs is the mempool depth.
	PendingTxs uint64
	// BlockUtilization is the percentage, in [0,100], of the latest block's
	// capacity that was used.
	BlockUtilization float64
	// AvgWaitSeconds estimates inclusion wait at the standard tier.
	AvgWaitSeconds float64
	Stamp          time.Time
}

// Copy creates a copy of the snapshot.
func (s *CongestionSnapshot) Copy() *CongestionSnapshot {
	c := *s
	return &c
}

// HistoryEntry is one retained sample per successful poll, used only for
// trend and statistics, not for replay.
type HistoryEntry struct {
	Stamp       time.Time
	Standard    *big.Int
	BaseFee     *big.Int
	PriorityFee *big.Int
	BlockNumber uint64
}

// Copy creates a deep copy of the entry.
func (e *HistoryEntry) Copy() *HistoryEntry {
	return &HistoryEntry{
		Stamp:       e.Stamp,
		Standard:    new(big.Int).Set(e.Standard),
		BaseFee:     new(big.Int).Set(e.BaseFee),
		PriorityFee: new(big.Int).Set(e.PriorityFee),
		BlockNumber: e.BlockNumber,
	}
}

// Trend is a three-valued classification of recent fee price movement.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Recommendation is a derived start/end gas price pair for a new auction,
// plus their average. Recomputed on demand from current tracker state, never
// persisted.
type Recommendation struct {
	Trend    Trend
	StartGas *big.Int
	EndGas   *big.Int
	AvgGas   *big.Int
}

// Statistics summarizes the retained standard-tier price history.
type Statistics struct {
	Average *big.Int
	Median  *big.Int
	Min     *big.Int
	Max     *big.Int
	// Volatility is the population standard deviation of the standard-tier
	// price divided by the average, computed in floating point. Zero when
	// there is no history.
	Volatility float64
	Samples    int
}
