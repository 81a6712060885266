// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func testSnapshot(slow, standard, fast, instant int64) *FeeTierSnapshot {
	return &FeeTierSnapshot{
		Slow:        big.NewInt(slow),
		Standard:    big.NewInt(standard),
		Fast:        big.NewInt(fast),
		Instant:     big.NewInt(instant),
		BaseFee:     big.NewInt(standard * 9 / 10),
		PriorityFee: big.NewInt(standard / 10),
		Stamp:       time.Now(),
	}
}

func TestLevelForScore(t *testing.T) {
	checkLevel := func(score float64, exp CongestionLevel) {
		t.Helper()
		if lvl := LevelForScore(score); lvl != exp {
			t.Fatalf("LevelForScore(%f) = %s, expected %s", score, lvl, exp)
		}
	}
	checkLevel(0, CongestionLow)
	checkLevel(0.29, CongestionLow)
	checkLevel(0.3, CongestionMedium)
	checkLevel(0.59, CongestionMedium)
	checkLevel(0.6, CongestionHigh)
	checkLevel(0.79, CongestionHigh)
	checkLevel(0.8, CongestionExtreme)
	checkLevel(1, CongestionExtreme)
}

func TestSnapshotValidate(t *testing.T) {
	if err := testSnapshot(10, 20, 30, 50).Validate(); err != nil {
		t.Fatalf("valid snapshot rejected: %v", err)
	}
	// Equal adjacent tiers are fine.
	if err := testSnapshot(20, 20, 20, 20).Validate(); err != nil {
		t.Fatalf("flat snapshot rejected: %v", err)
	}
	// Out of order tiers are malformed.
	for _, s := range []*FeeTierSnapshot{
		testSnapshot(25, 20, 30, 50),
		testSnapshot(10, 35, 30, 50),
		testSnapshot(10, 20, 60, 50),
	} {
		if err := s.Validate(); !errors.Is(err, ErrMalformedSnapshot) {
			t.Fatalf("out-of-order snapshot passed validation: %v", err)
		}
	}
	// Negative and missing amounts are malformed.
	neg := testSnapshot(10, 20, 30, 50)
	neg.PriorityFee = big.NewInt(-1)
	if err := neg.Validate(); !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("negative amount passed validation: %v", err)
	}
	missing := testSnapshot(10, 20, 30, 50)
	missing.BaseFee = nil
	if err := missing.Validate(); !errors.Is(err, ErrMalformedSnapshot) {
		t.Fatalf("missing amount passed validation: %v", err)
	}
}

func TestSnapshotCopy(t *testing.T) {
	s := testSnapshot(10, 20, 30, 50)
	cp := s.Copy()
	cp.Standard.SetInt64(999)
	if s.Standard.Int64() != 20 {
		t.Fatalf("mutating the copy reached the original")
	}
}

func TestParseTier(t *testing.T) {
	for _, tier := range []Tier{TierSlow, TierStandard, TierFast, TierInstant} {
		parsed, err := ParseTier(tier.String())
		if err != nil {
			t.Fatalf("ParseTier(%s): %v", tier, err)
		}
		if parsed != tier {
			t.Fatalf("ParseTier(%s) = %s", tier, parsed)
		}
	}
	if _, err := ParseTier("warp"); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}
