// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package api

import (
	"math/big"

	"github.com/dutchex/dutchex/auction"
	"github.com/dutchex/dutchex/gas"
)

// Fee amounts cross the wire as decimal-string-encoded integers, so no
// precision is lost on values past float64's exact-integer range. Timestamps
// are epoch milliseconds.

func decString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// FeeTiersResult is the JSON view of a fee tier snapshot.
type FeeTiersResult struct {
	Slow        string `json:"slow"`
	Standard    string `json:"standard"`
	Fast        string `json:"fast"`
	Instant     string `json:"instant"`
	BaseFee     string `json:"baseFee"`
	PriorityFee string `json:"priorityFee"`
	BlockNumber uint64 `json:"blockNumber"`
	Stamp       int64  `json:"stamp"`
}

func feeTiersResult(s *gas.FeeTierSnapshot) *FeeTiersResult {
	return &FeeTiersResult{
		Slow:        decString(s.Slow),
		Standard:    decString(s.Standard),
		Fast:        decString(s.Fast),
		Instant:     decString(s.Instant),
		BaseFee:     decString(s.BaseFee),
		PriorityFee: decString(s.PriorityFee),
		BlockNumber: s.BlockNumber,
		Stamp:       s.Stamp.UnixMilli(),
	}
}

// CongestionResult is the JSON view of a congestion snapshot.
type CongestionResult struct {
	Level            string  `json:"level"`
	Score            float64 `json:"score"`
	PendingTxs       uint64  `json:"pendingTxs"`
	BlockUtilization float64 `json:"blockUtilization"`
	AvgWaitSeconds   float64 `json:"avgWaitSeconds"`
	Stamp            int64   `json:"stamp"`
}

func congestionResult(s *gas.CongestionSnapshot) *CongestionResult {
	return &CongestionResult{
		Level:            s.Level.String(),
		Score:            s.Score,
		PendingTxs:       s.PendingTxs,
		BlockUtilization: s.BlockUtilization,
		AvgWaitSeconds:   s.AvgWaitSeconds,
		Stamp:            s.Stamp.UnixMilli(),
	}
}

// HistoryResult is the JSON view of one history entry.
type HistoryResult struct {
	Stamp       int64  `json:"stamp"`
	Standard    string `json:"standard"`
	BaseFee     string `json:"baseFee"`
	PriorityFee string `json:"priorityFee"`
	BlockNumber uint64 `json:"blockNumber"`
}

func historyResults(entries []*gas.HistoryEntry) []*HistoryResult {
	res := make([]*HistoryResult, 0, len(entries))
	for _, e := range entries {
		res = append(res, &HistoryResult{
			Stamp:       e.Stamp.UnixMilli(),
			Standard:    decString(e.Standard),
			BaseFee:     decString(e.BaseFee),
			PriorityFee: decString(e.PriorityFee),
			BlockNumber: e.BlockNumber,
		})
	}
	return res
}

// OptimalResult is the JSON response for an optimal price query.
type OptimalResult struct {
	Tier  string `json:"tier"`
	Price string `json:"price"`
}

// TrendResult is the JSON response for a trend query.
type TrendResult struct {
	Trend string `json:"trend"`
}

// StatisticsResult is the JSON view of history statistics.
type StatisticsResult struct {
	Average    string  `json:"average"`
	Median     string  `json:"median"`
	Min        string  `json:"min"`
	Max        string  `json:"max"`
	Volatility float64 `json:"volatility"`
	Samples    int     `json:"samples"`
}

func statisticsResult(s *gas.Statistics) *StatisticsResult {
	return &StatisticsResult{
		Average:    decString(s.Average),
		Median:     decString(s.Median),
		Min:        decString(s.Min),
		Max:        decString(s.Max),
		Volatility: s.Volatility,
		Samples:    s.Samples,
	}
}

// RecommendationResult is the JSON view of an auction gas recommendation.
type RecommendationResult struct {
	Trend           string `json:"trend"`
	StartGasPrice   string `json:"startGasPrice"`
	EndGasPrice     string `json:"endGasPrice"`
	AverageGasPrice string `json:"averageGasPrice"`
}

func recommendationResult(r *gas.Recommendation) *RecommendationResult {
	return &RecommendationResult{
		Trend:           string(r.Trend),
		StartGasPrice:   decString(r.StartGas),
		EndGasPrice:     decString(r.EndGas),
		AverageGasPrice: decString(r.AvgGas),
	}
}

// AuctionStatusRequest describes an auction curve to evaluate. Times are
// epoch milliseconds. LivePrice, when present, is an externally observed
// execution price returned verbatim instead of the interpolated price.
type AuctionStatusRequest struct {
	StartPrice float64  `json:"startPrice"`
	EndPrice   float64  `json:"endPrice"`
	StartTime  int64    `json:"startTime"`
	EndTime    int64    `json:"endTime"`
	LivePrice  *float64 `json:"livePrice,omitempty"`
}

// AuctionStatusResult is the JSON view of a point-in-time auction status.
type AuctionStatusResult struct {
	State     string  `json:"state"`
	Progress  float64 `json:"progress"`
	Price     float64 `json:"price"`
	Remaining string  `json:"remaining"`
}

func auctionStatusResult(s *auction.Status) *AuctionStatusResult {
	return &AuctionStatusResult{
		State:     s.State.String(),
		Progress:  s.Progress,
		Price:     s.Price,
		Remaining: s.Remaining,
	}
}
