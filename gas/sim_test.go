// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"context"
	"testing"
	"time"
)

func TestSimSource(t *testing.T) {
	source := NewSimSource(20, time.Minute)
	ctx := context.Background()

	var lastBlock uint64
	for i := 0; i < 50; i++ {
		tiers, err := source.FeeTiers(ctx)
		if err != nil {
			t.Fatalf("FeeTiers error: %v", err)
		}
		if err := tiers.Validate(); err != nil {
			t.Fatalf("simulated snapshot invalid: %v", err)
		}
		if tiers.BlockNumber <= lastBlock {
			t.Fatalf("block number did not advance: %d -> %d", lastBlock, tiers.BlockNumber)
		}
		lastBlock = tiers.BlockNumber

		congestion, err := source.Congestion(ctx)
		if err != nil {
			t.Fatalf("Congestion error: %v", err)
		}
		if congestion.Score < 0 || congestion.Score > 1 {
			t.Fatalf("congestion score %f out of range", congestion.Score)
		}
		if congestion.Level != LevelForScore(congestion.Score) {
			t.Fatalf("level %s inconsistent with score %f", congestion.Level, congestion.Score)
		}
	}
}

func TestSimSourceDefaults(t *testing.T) {
	source := NewSimSource(0, 0)
	tiers, err := source.FeeTiers(context.Background())
	if err != nil {
		t.Fatalf("FeeTiers error: %v", err)
	}
	if err := tiers.Validate(); err != nil {
		t.Fatalf("snapshot from zero-value config invalid: %v", err)
	}
	if tiers.Standard.Sign() <= 0 {
		t.Fatalf("non-positive standard price %s", tiers.Standard)
	}
}
