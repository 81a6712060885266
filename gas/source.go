// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"context"
	"math/big"
	"time"
)

// SampleSource supplies one fee tier snapshot and one congestion snapshot per
// poll. Implementations must respect the context deadline; the tracker bounds
// every poll with a timeout so that a hung fetch stalls at most one tick.
type SampleSource interface {
	// FeeTiers fetches the current fee price tiers.
	FeeTiers(ctx context.Context) (*FeeTierSnapshot, error)
	// Congestion fetches the current network congestion.
	Congestion(ctx context.Context) (*CongestionSnapshot, error)
}

// DefaultFeeTiers is the fixed baseline snapshot served until the first
// successful poll. Amounts are in the chain's smallest fee unit.
func DefaultFeeTiers() *FeeTierSnapshot {
	return &FeeTierSnapshot{
		Slow:        big.NewInt(10),
		Standard:    big.NewInt(20),
		Fast:        big.NewInt(30),
		Instant:     big.NewInt(50),
		BaseFee:     big.NewInt(15),
		PriorityFee: big.NewInt(2),
		Stamp:       time.Now(),
	}
}

// DefaultCongestion is the fixed "medium" baseline snapshot served until the
// first successful poll.
func DefaultCongestion() *CongestionSnapshot {
	return &CongestionSnapshot{
		Level:            CongestionMedium,
		Score:            0.5,
		PendingTxs:       0,
		BlockUtilization: 50,
		AvgWaitSeconds:   30,
		Stamp:            time.Now(),
	}
}
