// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"context"
	"math"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/dutchex/dutchex"
	"github.com/dutchex/dutchex/calc"
	"github.com/dutchex/dutchex/utils"
)

const (
	// HistoryCapacity is the fixed size of the trailing sample window. When
	// the window is full the oldest entries are evicted from the head.
	HistoryCapacity = 100

	// pollTimeout bounds a single poll of the sample source, so a hung fetch
	// stalls only that tick's update and never blocks the schedule.
	pollTimeout = 10 * time.Second

	// trendWindow is the number of trailing samples considered by
	// PredictTrend.
	trendWindow = 5
)

// congestionMultipliers biases the optimal price by network load. Values are
// thousandths.
var congestionMultipliers = map[CongestionLevel]int64{
	CongestionLow:     900,
	CongestionMedium:  1000,
	CongestionHigh:    1200,
	CongestionExtreme: 1500,
}

// auctionMultipliers maps the fee trend to (start, end) auction price bias in
// thousandths.
var auctionMultipliers = map[Trend][2]int64{
	TrendIncreasing: {1100, 1200},
	TrendDecreasing: {900, 800},
	TrendStable:     {1000, 1000},
}

// Tracker maintains the freshest fee and congestion view and a bounded
// trailing history. The poll loop is the single writer. Every accessor
// returns independent copies, so readers never observe partially-updated
// state and cannot mutate tracker-owned values. Until the first successful
// poll a Tracker serves the fixed baseline snapshots.
type Tracker struct {
	log    dutchex.Logger
	source SampleSource

	mtx        sync.RWMutex
	tiers      *FeeTierSnapshot
	congestion *CongestionSnapshot
	history    []*HistoryEntry

	monitorMtx  sync.Mutex
	stopMonitor context.CancelFunc
	monitorDone chan struct{}
}

// NewTracker creates a Tracker for the provided sample source. The Tracker
// serves defaults until StartMonitoring's first poll succeeds.
func NewTracker(source SampleSource, log dutchex.Logger) *Tracker {
	return &Tracker{
		log:        log,
		source:     source,
		tiers:      DefaultFeeTiers(),
		congestion: DefaultCongestion(),
	}
}

// StartMonitoring begins periodic polling of the sample source. One poll is
// run synchronously before it returns, so started trackers never serve the
// initial defaults. Re-invoking replaces any running schedule rather than
// adding to it.
func (t *Tracker) StartMonitoring(interval time.Duration) {
	t.monitorMtx.Lock()
	defer t.monitorMtx.Unlock()
	t.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	t.stopMonitor = cancel
	t.monitorDone = done

	t.poll(ctx)

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// Ticks are dropped while a poll is still running, so polls
				// never overlap.
				t.poll(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// StopMonitoring halts future polls. After it returns no further poll fires.
// It is a no-op when monitoring is not running.
func (t *Tracker) StopMonitoring() {
	t.monitorMtx.Lock()
	defer t.monitorMtx.Unlock()
	t.stopLocked()
}

// stopLocked cancels a running monitor loop and waits for it to exit. The
// monitorMtx must be held.
func (t *Tracker) stopLocked() {
	if t.stopMonitor == nil {
		return
	}
	t.stopMonitor()
	<-t.monitorDone
	t.stopMonitor = nil
	t.monitorDone = nil
}

// poll fetches both snapshots and, when both succeed and validate, updates
// the current state and appends a history entry. Any failure retains the
// previous state unchanged and appends nothing. The next scheduled tick is
// the retry.
func (t *Tracker) poll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	tiers, err := t.source.FeeTiers(ctx)
	if err != nil {
		t.log.Errorf("fee tier fetch error: %v", err)
		return
	}
	if err := tiers.Validate(); err != nil {
		t.log.Errorf("rejecting fee tier snapshot: %v", err)
		return
	}

	congestion, err := t.source.Congestion(ctx)
	if err != nil {
		t.log.Errorf("congestion fetch error: %v", err)
		return
	}

	now := time.Now()
	tiers = tiers.Copy() // own our state
	if tiers.Stamp.IsZero() {
		tiers.Stamp = now
	}
	congestion = congestion.Copy()
	congestion.Score = utils.Clamp(congestion.Score, 0, 1)
	congestion.BlockUtilization = utils.Clamp(congestion.BlockUtilization, 0, 100)
	// The score-to-level mapping is authoritative, so the fed level is
	// re-derived from the clamped score.
	congestion.Level = LevelForScore(congestion.Score)
	if congestion.Stamp.IsZero() {
		congestion.Stamp = now
	}

	entry := &HistoryEntry{
		Stamp:       tiers.Stamp,
		Standard:    new(big.Int).Set(tiers.Standard),
		BaseFee:     new(big.Int).Set(tiers.BaseFee),
		PriorityFee: new(big.Int).Set(tiers.PriorityFee),
		BlockNumber: tiers.BlockNumber,
	}

	t.mtx.Lock()
	t.tiers = tiers
	t.congestion = congestion
	t.history = append(t.history, entry)
	if len(t.history) > HistoryCapacity {
		// FIFO eviction. Copy down so the head of the backing array doesn't
		// pin evicted entries.
		overflow := len(t.history) - HistoryCapacity
		n := copy(t.history, t.history[overflow:])
		for i := n; i < len(t.history); i++ {
			t.history[i] = nil
		}
		t.history = t.history[:n]
	}
	t.mtx.Unlock()

	t.log.Tracef("poll ok: standard %s, congestion %s (%.2f), block %d",
		tiers.Standard, congestion.Level, congestion.Score, tiers.BlockNumber)
}

// CurrentFeeTiers returns an independent copy of the current fee tier
// snapshot. Never blocks on a poll.
func (t *Tracker) CurrentFeeTiers() *FeeTierSnapshot {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.tiers.Copy()
}

// CurrentCongestion returns an independent copy of the current congestion
// snapshot. Never blocks on a poll.
func (t *Tracker) CurrentCongestion() *CongestionSnapshot {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	return t.congestion.Copy()
}

// History returns copies of the trailing limit entries in chronological
// order, or the full window for limit <= 0. The result is empty until a poll
// has succeeded.
func (t *Tracker) History(limit int) []*HistoryEntry {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	n := len(t.history)
	if limit > 0 {
		n = utils.Min(limit, n)
	}
	entries := make([]*HistoryEntry, 0, n)
	for _, entry := range t.history[len(t.history)-n:] {
		entries = append(entries, entry.Copy())
	}
	return entries
}

// OptimalGasPrice computes floor(tierPrice * congestionMultiplier) for an
// immediate transaction at the given urgency tier, using thousandths-scaled
// integer arithmetic. Only the slow, standard and fast tiers are served.
func (t *Tracker) OptimalGasPrice(tier Tier) (*big.Int, error) {
	switch tier {
	case TierSlow, TierStandard, TierFast:
	default:
		return nil, dutchex.NewError(ErrUnknownTier, tier.String())
	}
	t.mtx.RLock()
	base := new(big.Int).Set(t.tiers.Tier(tier))
	mult := congestionMultipliers[t.congestion.Level]
	t.mtx.RUnlock()
	return calc.MulThousandths(base, mult), nil
}

// PredictTrend classifies recent standard-tier price movement. It requires at
// least trendWindow history entries, else returns TrendStable. The last five
// samples are split into an old average (samples 0-2) and a new average
// (samples 2-4). The shared midpoint is intentional; it weights the middle
// sample into both halves. A move beyond 5% of the old average in either
// direction is a trend.
func (t *Tracker) PredictTrend() Trend {
	t.mtx.RLock()
	defer t.mtx.RUnlock()
	if len(t.history) < trendWindow {
		return TrendStable
	}
	w := t.history[len(t.history)-trendWindow:]
	oldAvg := calc.AvgFloor(w[0].Standard, w[1].Standard, w[2].Standard)
	newAvg := calc.AvgFloor(w[2].Standard, w[3].Standard, w[4].Standard)
	threshold := new(big.Int).Quo(oldAvg, big.NewInt(20))
	switch {
	case newAvg.Cmp(new(big.Int).Add(oldAvg, threshold)) > 0:
		return TrendIncreasing
	case newAvg.Cmp(new(big.Int).Sub(oldAvg, threshold)) < 0:
		return TrendDecreasing
	}
	return TrendStable
}

// AuctionRecommendation maps the current trend to start and end gas price
// recommendations for a new auction of the given duration, applying the trend
// multipliers to the current standard-tier price. durationSeconds is accepted
// for symmetry with auction creation but does not currently influence the
// multiplier choice, and callers must not assume duration sensitivity.
func (t *Tracker) AuctionRecommendation(durationSeconds uint64) *Recommendation {
	trend := t.PredictTrend()
	mults := auctionMultipliers[trend]

	t.mtx.RLock()
	standard := new(big.Int).Set(t.tiers.Standard)
	t.mtx.RUnlock()

	start := calc.MulThousandths(standard, mults[0])
	end := calc.MulThousandths(standard, mults[1])
	return &Recommendation{
		Trend:    trend,
		StartGas: start,
		EndGas:   end,
		AvgGas:   calc.AvgFloor(start, end),
	}
}

// PriceAcceptable reports whether price does not exceed maxPrice.
func (t *Tracker) PriceAcceptable(price, maxPrice *big.Int) bool {
	return price.Cmp(maxPrice) <= 0
}

// Statistics summarizes the retained standard-tier price history. With no
// history yet, the single current standard price stands in for the average,
// median, min and max, and volatility is zero.
func (t *Tracker) Statistics() *Statistics {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	n := len(t.history)
	if n == 0 {
		current := t.tiers.Standard
		return &Statistics{
			Average: new(big.Int).Set(current),
			Median:  new(big.Int).Set(current),
			Min:     new(big.Int).Set(current),
			Max:     new(big.Int).Set(current),
		}
	}

	prices := make([]*big.Int, 0, n)
	for _, entry := range t.history {
		prices = append(prices, entry.Standard)
	}
	avg := calc.AvgFloor(prices...)

	sorted := make([]*big.Int, n)
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Cmp(sorted[j]) < 0 })

	// Volatility is a ratio, so float64 precision suffices here.
	var mean float64
	for _, p := range prices {
		mean += calc.Float64(p)
	}
	mean /= float64(n)
	var variance float64
	for _, p := range prices {
		dev := calc.Float64(p) - mean
		variance += dev * dev
	}
	variance /= float64(n)
	var volatility float64
	if mean > 0 {
		volatility = math.Sqrt(variance) / mean
	}

	return &Statistics{
		Average:    avg,
		Median:     new(big.Int).Set(sorted[(n-1)/2]), // lower middle for even counts
		Min:        new(big.Int).Set(sorted[0]),
		Max:        new(big.Int).Set(sorted[n-1]),
		Volatility: volatility,
		Samples:    n,
	}
}
