// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package gas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStationSource(t *testing.T) {
	var response string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}))
	defer srv.Close()

	source := NewStationSource(srv.URL, tLogger)
	ctx := context.Background()

	// Congestion before any fee sample is an error.
	if _, err := source.Congestion(ctx); err == nil {
		t.Fatalf("expected error for congestion without a fee sample")
	}

	// Full response, with amounts past float64's exact-integer range.
	response = `{"safeLow":"9007199254740993","average":"18014398509481986","fast":"27021597764222979",` +
		`"fastest":"36028797018963972","baseFee":"9007199254740000","priorityFee":"1000000000","blockNumber":777}`
	tiers, err := source.FeeTiers(ctx)
	if err != nil {
		t.Fatalf("FeeTiers error: %v", err)
	}
	if err := tiers.Validate(); err != nil {
		t.Fatalf("station snapshot invalid: %v", err)
	}
	if tiers.Slow.String() != "9007199254740993" {
		t.Fatalf("slow = %s", tiers.Slow)
	}
	if tiers.BlockNumber != 777 {
		t.Fatalf("block number = %d", tiers.BlockNumber)
	}

	// Spread (fastest-safeLow)/safeLow = 3, score 3/4 -> high.
	congestion, err := source.Congestion(ctx)
	if err != nil {
		t.Fatalf("Congestion error: %v", err)
	}
	if congestion.Level != CongestionHigh {
		t.Fatalf("congestion level = %s, expected high", congestion.Level)
	}

	// Base and priority fees are derived when the endpoint omits them.
	response = `{"safeLow":"10","average":"20","fast":"30","fastest":"50"}`
	tiers, err = source.FeeTiers(ctx)
	if err != nil {
		t.Fatalf("FeeTiers error: %v", err)
	}
	if tiers.BaseFee.Int64() != 18 { // 20 * 0.9
		t.Fatalf("derived base fee = %s, expected 18", tiers.BaseFee)
	}
	if tiers.PriorityFee.Int64() != 2 { // 20 * 0.1
		t.Fatalf("derived priority fee = %s, expected 2", tiers.PriorityFee)
	}

	// Garbage amounts and missing tiers are errors.
	for _, bad := range []string{
		`{"safeLow":"1.5","average":"20","fast":"30","fastest":"50"}`,
		`{"safeLow":"10","average":"20","fast":"30"}`,
	} {
		response = bad
		if _, err := source.FeeTiers(ctx); err == nil {
			t.Fatalf("no error for response %s", bad)
		}
	}
}
