// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/dutchex/dutchex"
	"github.com/dutchex/dutchex/utils"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	// feeHistoryBlocks is how many recent blocks inform the tier estimates.
	feeHistoryBlocks = 5
	// pendingSaturation is the mempool depth treated as fully congested.
	pendingSaturation = 20000
)

// feeHistoryPercentiles are the priority-fee reward percentiles requested per
// block, one per tier in ascending order.
var feeHistoryPercentiles = []float64{10, 50, 90, 99}

// EVMSource samples fee tiers and congestion from an EVM settlement chain
// node. Tiers come from eth_feeHistory reward percentiles over recent blocks
// on top of the pending base fee; congestion from the latest block's gas
// utilization and the pending transaction count.
type EVMSource struct {
	log dutchex.Logger
	cli *ethclient.Client
}

// NewEVMSource connects to the node at the provided RPC endpoint.
func NewEVMSource(ctx context.Context, endpoint string, log dutchex.Logger) (*EVMSource, error) {
	cli, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("error dialing EVM node at %q: %w", endpoint, err)
	}
	return &EVMSource{log: log, cli: cli}, nil
}

// Close shuts down the underlying RPC client.
func (s *EVMSource) Close() {
	s.cli.Close()
}

// FeeTiers derives the four tiers from recent reward percentiles added to the
// pending block's base fee. Ascending percentiles on a common base keep the
// tier ordering monotone.
func (s *EVMSource) FeeTiers(ctx context.Context) (*FeeTierSnapshot, error) {
	fh, err := s.cli.FeeHistory(ctx, feeHistoryBlocks, nil, feeHistoryPercentiles)
	if err != nil {
		return nil, fmt.Errorf("feeHistory error: %w", err)
	}
	if len(fh.Reward) == 0 || len(fh.BaseFee) == 0 {
		return nil, fmt.Errorf("feeHistory returned no reward data")
	}

	// The last base fee entry is the pending block's.
	baseFee := fh.BaseFee[len(fh.BaseFee)-1]
	if baseFee == nil {
		baseFee = new(big.Int)
	}

	// Average each percentile column over the sampled blocks.
	tips := make([]*big.Int, len(feeHistoryPercentiles))
	for col := range tips {
		sum, rows := new(big.Int), 0
		for _, rewards := range fh.Reward {
			if col >= len(rewards) || rewards[col] == nil {
				continue
			}
			sum.Add(sum, rewards[col])
			rows++
		}
		if rows == 0 {
			return nil, fmt.Errorf("feeHistory percentile %f missing from all blocks", feeHistoryPercentiles[col])
		}
		tips[col] = sum.Quo(sum, big.NewInt(int64(rows)))
	}

	tier := func(tip *big.Int) *big.Int {
		return new(big.Int).Add(baseFee, tip)
	}
	blockNumber := fh.OldestBlock.Uint64() + uint64(len(fh.Reward)) - 1
	return &FeeTierSnapshot{
		Slow:        tier(tips[0]),
		Standard:    tier(tips[1]),
		Fast:        tier(tips[2]),
		Instant:     tier(tips[3]),
		BaseFee:     new(big.Int).Set(baseFee),
		PriorityFee: new(big.Int).Set(tips[1]),
		BlockNumber: blockNumber,
		Stamp:       time.Now(),
	}, nil
}

// Congestion scores network load from the latest block's utilization and the
// mempool depth, weighted 70/30.
func (s *EVMSource) Congestion(ctx context.Context) (*CongestionSnapshot, error) {
	hdr, err := s.cli.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("header fetch error: %w", err)
	}
	pending, err := s.cli.PendingTransactionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending tx count error: %w", err)
	}

	var utilization float64
	if hdr.GasLimit > 0 {
		utilization = float64(hdr.GasUsed) / float64(hdr.GasLimit) * 100
	}
	mempoolLoad := utils.Min(float64(pending), pendingSaturation) / pendingSaturation
	score := utils.Clamp(0.7*utilization/100+0.3*mempoolLoad, 0, 1)

	return &CongestionSnapshot{
		Level:            LevelForScore(score),
		Score:            score,
		PendingTxs:       uint64(pending),
		BlockUtilization: utilization,
		// Rough inclusion estimate at the standard tier, scaled by load
		// against a 12 second block cadence.
		AvgWaitSeconds: 12 * (1 + 9*score),
		Stamp:          time.Now(),
	}, nil
}
