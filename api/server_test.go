// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dutchex/dutchex"
	"github.com/dutchex/dutchex/auction"
	"github.com/dutchex/dutchex/gas"
)

// tSource is an inert SampleSource. The test server never polls, so the
// tracker serves its baseline defaults.
type tSource struct{}

func (tSource) FeeTiers(context.Context) (*gas.FeeTierSnapshot, error) {
	return nil, fmt.Errorf("not polling")
}

func (tSource) Congestion(context.Context) (*gas.CongestionSnapshot, error) {
	return nil, fmt.Errorf("not polling")
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	UseLogger(dutchex.StdOutLogger("T", dutchex.LevelOff))
	tracker := gas.NewTracker(tSource{}, dutchex.StdOutLogger("T", dutchex.LevelOff))
	s, err := NewServer(&SrvConfig{
		Core:    tracker,
		Advisor: auction.NewAdvisor(tracker),
		Addr:    "127.0.0.1:0",
	})
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	srv := httptest.NewServer(s.srv.Handler)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, srv *httptest.Server, path string, thing any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s error: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(thing); err != nil {
		t.Fatalf("GET %s decode error: %v", path, err)
	}
}

func TestGasEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var tiers FeeTiersResult
	getJSON(t, srv, "/api/gas/tiers", &tiers)
	if tiers.Standard != "20" {
		t.Fatalf("standard = %q, expected decimal string \"20\"", tiers.Standard)
	}
	if tiers.Stamp == 0 {
		t.Fatalf("zero snapshot stamp")
	}

	var congestion CongestionResult
	getJSON(t, srv, "/api/gas/congestion", &congestion)
	if congestion.Level != "medium" {
		t.Fatalf("congestion level = %q, expected medium", congestion.Level)
	}

	var history []*HistoryResult
	getJSON(t, srv, "/api/gas/history", &history)
	if len(history) != 0 {
		t.Fatalf("history has %d entries before any poll", len(history))
	}

	var optimal OptimalResult
	getJSON(t, srv, "/api/gas/optimal?tier=standard", &optimal)
	if optimal.Price != "20" {
		t.Fatalf("optimal standard = %q, expected \"20\"", optimal.Price)
	}
	// Default tier is standard.
	getJSON(t, srv, "/api/gas/optimal", &optimal)
	if optimal.Tier != "standard" {
		t.Fatalf("default tier = %q", optimal.Tier)
	}

	var trend TrendResult
	getJSON(t, srv, "/api/gas/trend", &trend)
	if trend.Trend != "stable" {
		t.Fatalf("trend = %q, expected stable with no history", trend.Trend)
	}

	var stats StatisticsResult
	getJSON(t, srv, "/api/gas/statistics", &stats)
	if stats.Average != "20" || stats.Samples != 0 {
		t.Fatalf("statistics = %+v", stats)
	}

	var rec RecommendationResult
	getJSON(t, srv, "/api/gas/recommendation?duration=180", &rec)
	if rec.StartGasPrice != "20" || rec.EndGasPrice != "20" || rec.AverageGasPrice != "20" {
		t.Fatalf("stable recommendation = %+v", rec)
	}
}

func TestBadQueries(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{
		"/api/gas/optimal?tier=warp",
		"/api/gas/optimal?tier=instant", // not served
		"/api/gas/history?limit=-1",
		"/api/gas/history?limit=ten",
		"/api/gas/recommendation?duration=soon",
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s error: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("GET %s status %d, expected 400", path, resp.StatusCode)
		}
	}
}

func postStatus(t *testing.T, srv *httptest.Server, req *AuctionStatusRequest) (*AuctionStatusResult, int) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	resp, err := http.Post(srv.URL+"/api/auction/status", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode
	}
	var res AuctionStatusResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return &res, resp.StatusCode
}

func TestAuctionStatus(t *testing.T) {
	srv := newTestServer(t)

	now := time.Now()
	req := &AuctionStatusRequest{
		StartPrice: 100,
		EndPrice:   50,
		StartTime:  now.Add(-25 * time.Second).UnixMilli(),
		EndTime:    now.Add(75 * time.Second).UnixMilli(),
	}
	status, code := postStatus(t, srv, req)
	if code != http.StatusOK {
		t.Fatalf("status code %d", code)
	}
	if status.State != "active" {
		t.Fatalf("state = %q, expected active", status.State)
	}
	// Roughly a quarter through a 100 second window.
	if status.Progress < 24 || status.Progress > 26 {
		t.Fatalf("progress = %f, expected ~25", status.Progress)
	}
	if status.Price < 87 || status.Price > 88 {
		t.Fatalf("price = %f, expected ~87.5", status.Price)
	}
	if status.Remaining == "00:00:00" {
		t.Fatalf("active auction reported expired")
	}

	// A live price is echoed verbatim.
	live := 66.6
	req.LivePrice = &live
	status, _ = postStatus(t, srv, req)
	if status.Price != 66.6 {
		t.Fatalf("live price = %f, expected 66.6", status.Price)
	}

	// An invalid window is rejected.
	bad := &AuctionStatusRequest{
		StartPrice: 100, EndPrice: 50,
		StartTime: now.UnixMilli(), EndTime: now.UnixMilli(),
	}
	if _, code := postStatus(t, srv, bad); code != http.StatusBadRequest {
		t.Fatalf("degenerate window status %d, expected 400", code)
	}

	// An expired auction reads 00:00:00 at the end price.
	expired := &AuctionStatusRequest{
		StartPrice: 100, EndPrice: 50,
		StartTime: now.Add(-2 * time.Hour).UnixMilli(),
		EndTime:   now.Add(-time.Hour).UnixMilli(),
	}
	status, _ = postStatus(t, srv, expired)
	if status.State != "expired" || status.Remaining != "00:00:00" || status.Price != 50 {
		t.Fatalf("expired status = %+v", status)
	}
}
