// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dutchex/dutchex"
	"github.com/dutchex/dutchex/calc"
	"github.com/dutchex/dutchex/netutil"
	"github.com/dutchex/dutchex/utils"
)

// stationResult is the gas-station style response shape: four recommended
// prices as decimal-string integers in the chain's smallest fee unit, with
// optional base and priority fee figures and a block number.
type stationResult struct {
	SafeLow     string `json:"safeLow"`
	Average     string `json:"average"`
	Fast        string `json:"fast"`
	Fastest     string `json:"fastest"`
	BaseFee     string `json:"baseFee,omitempty"`
	PriorityFee string `json:"priorityFee,omitempty"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// StationSource samples fee tiers from a gas-station style HTTP endpoint.
// Such endpoints carry no congestion data, so a load score is inferred from
// the spread between the fastest and safeLow prices.
type StationSource struct {
	log dutchex.Logger
	url string

	// lastSpread is only touched by the tracker's poll goroutine, with
	// Congestion always called after FeeTiers within the same poll.
	lastSpread float64
	lastStamp  time.Time
}

// NewStationSource creates a StationSource for the provided endpoint URL.
func NewStationSource(url string, log dutchex.Logger) *StationSource {
	return &StationSource{log: log, url: url}
}

func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("unparseable %s amount %q", field, s)
	}
	return v, nil
}

// FeeTiers fetches and parses the station response. Missing base and
// priority figures are derived from the average price.
func (s *StationSource) FeeTiers(ctx context.Context) (*FeeTierSnapshot, error) {
	var res stationResult
	if err := netutil.Get(ctx, s.url, &res); err != nil {
		return nil, fmt.Errorf("station request error: %w", err)
	}

	snapshot := &FeeTierSnapshot{BlockNumber: res.BlockNumber, Stamp: time.Now()}
	for _, amt := range []struct {
		field string
		raw   string
		dst   **big.Int
	}{
		{"safeLow", res.SafeLow, &snapshot.Slow},
		{"average", res.Average, &snapshot.Standard},
		{"fast", res.Fast, &snapshot.Fast},
		{"fastest", res.Fastest, &snapshot.Instant},
		{"baseFee", res.BaseFee, &snapshot.BaseFee},
		{"priorityFee", res.PriorityFee, &snapshot.PriorityFee},
	} {
		v, err := parseAmount(amt.field, amt.raw)
		if err != nil {
			return nil, err
		}
		*amt.dst = v
	}
	if snapshot.Slow == nil || snapshot.Standard == nil || snapshot.Fast == nil || snapshot.Instant == nil {
		return nil, fmt.Errorf("station response missing a required tier")
	}
	if snapshot.BaseFee == nil {
		snapshot.BaseFee = calc.MulThousandths(snapshot.Standard, 900)
	}
	if snapshot.PriorityFee == nil {
		snapshot.PriorityFee = calc.MulThousandths(snapshot.Standard, 100)
	}

	// Remember the tier spread for the congestion estimate.
	if slow := calc.Float64(snapshot.Slow); slow > 0 {
		s.lastSpread = (calc.Float64(snapshot.Instant) - slow) / slow
	} else {
		s.lastSpread = 0
	}
	s.lastStamp = snapshot.Stamp
	return snapshot, nil
}

// Congestion estimates load from the most recent tier spread: a wide gap
// between the fastest and safeLow prices accompanies contested block space.
func (s *StationSource) Congestion(_ context.Context) (*CongestionSnapshot, error) {
	if s.lastStamp.IsZero() {
		return nil, fmt.Errorf("no station sample to infer congestion from")
	}
	// A 4x spread maps to a full score.
	score := utils.Clamp(s.lastSpread/4, 0, 1)
	return &CongestionSnapshot{
		Level:            LevelForScore(score),
		Score:            score,
		BlockUtilization: score * 100,
		AvgWaitSeconds:   score * 120,
		Stamp:            s.lastStamp,
	}, nil
}
