// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package auction

import (
	"math/big"
	"testing"

	"github.com/dutchex/dutchex/gas"
)

// tTrendSource is a canned TrendSource.
type tTrendSource struct {
	trend        gas.Trend
	rec          *gas.Recommendation
	lastDuration uint64
}

func (s *tTrendSource) PredictTrend() gas.Trend {
	return s.trend
}

func (s *tTrendSource) AuctionRecommendation(durationSeconds uint64) *gas.Recommendation {
	s.lastDuration = durationSeconds
	return s.rec
}

func TestAdvisor(t *testing.T) {
	src := &tTrendSource{
		trend: gas.TrendIncreasing,
		rec: &gas.Recommendation{
			Trend:    gas.TrendIncreasing,
			StartGas: big.NewInt(110),
			EndGas:   big.NewInt(120),
			AvgGas:   big.NewInt(115),
		},
	}
	advisor := NewAdvisor(src)

	if trend := advisor.Trend(); trend != gas.TrendIncreasing {
		t.Fatalf("trend = %s, expected increasing", trend)
	}
	rec := advisor.Advise(300)
	if rec.StartGas.Int64() != 110 || rec.EndGas.Int64() != 120 || rec.AvgGas.Int64() != 115 {
		t.Fatalf("advice = %s/%s/%s", rec.StartGas, rec.EndGas, rec.AvgGas)
	}
	// The duration is passed through to the trend source untouched.
	if src.lastDuration != 300 {
		t.Fatalf("duration seen by source = %d, expected 300", src.lastDuration)
	}
}
