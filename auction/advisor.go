// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package auction

import (
	"github.com/dutchex/dutchex/gas"
)

// TrendSource supplies the fee trend signal and trend-derived gas price
// recommendations. *gas.Tracker satisfies TrendSource.
type TrendSource interface {
	PredictTrend() gas.Trend
	AuctionRecommendation(durationSeconds uint64) *gas.Recommendation
}

// Advisor decouples what the fee trend implies for auction pricing from how
// fee samples are collected, so the trend-to-multiplier policy can be swapped
// independently of the polling mechanism. It holds no state of its own.
type Advisor struct {
	src TrendSource
}

// NewAdvisor creates an Advisor over the provided trend source.
func NewAdvisor(src TrendSource) *Advisor {
	return &Advisor{src: src}
}

// Advise returns start and end gas price recommendations, with their average,
// for a new auction of the given duration.
func (a *Advisor) Advise(durationSeconds uint64) *gas.Recommendation {
	return a.src.AuctionRecommendation(durationSeconds)
}

// Trend reports the current fee price trend.
func (a *Advisor) Trend() gas.Trend {
	return a.src.PredictTrend()
}
