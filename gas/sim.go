// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"context"
	"math"
	"math/big"
	"math/rand"
	"time"

	"github.com/dutchex/dutchex/utils"
)

// SimSource is a simulated SampleSource. The standard-tier price rides a
// sinusoid around a configured base with random jitter, and congestion
// follows the same wave a quarter period behind. Useful for development and
// load testing without a settlement chain. SimSource is not safe for
// concurrent use; the tracker polls from a single goroutine.
type SimSource struct {
	base   uint64
	period time.Duration
	start  time.Time
	rng    *rand.Rand
	block  uint64
}

// NewSimSource creates a SimSource with the given base standard-tier price in
// the chain's smallest fee unit and a full wave period.
func NewSimSource(base uint64, period time.Duration) *SimSource {
	if base == 0 {
		base = 20
	}
	if period <= 0 {
		period = 10 * time.Minute
	}
	return &SimSource{
		base:   base,
		period: period,
		start:  time.Now(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// phase is the wave position in radians at time now.
func (s *SimSource) phase(now time.Time) float64 {
	return 2 * math.Pi * float64(now.Sub(s.start)) / float64(s.period)
}

// FeeTiers derives all tiers from the simulated standard price.
func (s *SimSource) FeeTiers(_ context.Context) (*FeeTierSnapshot, error) {
	now := time.Now()
	wave := 1 + 0.25*math.Sin(s.phase(now))
	jitter := 1 + 0.05*(2*s.rng.Float64()-1)
	standard := uint64(math.Max(1, float64(s.base)*wave*jitter))
	s.block++

	pct := func(p uint64) *big.Int {
		return new(big.Int).SetUint64(utils.Max(uint64(1), standard*p/100))
	}
	return &FeeTierSnapshot{
		Slow:        pct(80),
		Standard:    new(big.Int).SetUint64(standard),
		Fast:        pct(125),
		Instant:     pct(160),
		BaseFee:     pct(90),
		PriorityFee: pct(10),
		BlockNumber: s.block,
		Stamp:       now,
	}, nil
}

// Congestion derives a load score from the wave, a quarter period behind the
// price, plus jitter.
func (s *SimSource) Congestion(_ context.Context) (*CongestionSnapshot, error) {
	now := time.Now()
	score := 0.5 + 0.4*math.Sin(s.phase(now)-math.Pi/2) + 0.1*(2*s.rng.Float64()-1)
	score = utils.Clamp(score, 0, 1)
	return &CongestionSnapshot{
		Level:            LevelForScore(score),
		Score:            score,
		PendingTxs:       uint64(score * 20000),
		BlockUtilization: score * 100,
		AvgWaitSeconds:   score * 120,
		Stamp:            now,
	}, nil
}
