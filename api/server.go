// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package api provides a read-only JSON HTTP server exposing the gas tracker
// and auction curve evaluation to transport clients.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dutchex/dutchex"
	"github.com/dutchex/dutchex/auction"
	"github.com/dutchex/dutchex/gas"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// rpcTimeoutSeconds bounds how long a request may hold a connection.
	rpcTimeoutSeconds = 10
)

var log = dutchex.Disabled

// UseLogger sets the logger for the api package.
func UseLogger(logger dutchex.Logger) {
	log = logger
}

// Core is satisfied by *gas.Tracker.
type Core interface {
	CurrentFeeTiers() *gas.FeeTierSnapshot
	CurrentCongestion() *gas.CongestionSnapshot
	History(limit int) []*gas.HistoryEntry
	OptimalGasPrice(tier gas.Tier) (*big.Int, error)
	Statistics() *gas.Statistics
}

// SrvConfig holds variables needed to create a new Server.
type SrvConfig struct {
	Core    Core
	Advisor *auction.Advisor
	Addr    string
}

// Server is the read-only JSON HTTP server.
type Server struct {
	core    Core
	advisor *auction.Advisor
	addr    string
	srv     *http.Server
}

// NewServer is the constructor for a new Server.
func NewServer(cfg *SrvConfig) (*Server, error) {
	if cfg.Core == nil || cfg.Advisor == nil {
		return nil, fmt.Errorf("both a core and an advisor are required")
	}

	mux := chi.NewRouter()
	httpServer := &http.Server{
		Handler:      mux,
		ReadTimeout:  rpcTimeoutSeconds * time.Second, // slow requests should not hold connections opened
		WriteTimeout: rpcTimeoutSeconds * time.Second, // hung responses must die
	}

	s := &Server{
		core:    cfg.Core,
		advisor: cfg.Advisor,
		addr:    cfg.Addr,
		srv:     httpServer,
	}

	// Middleware
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RealIP)

	// api endpoints
	mux.Route("/api", func(r chi.Router) {
		r.Route("/gas", func(r chi.Router) {
			r.Get("/tiers", s.apiTiers)
			r.Get("/congestion", s.apiCongestion)
			r.Get("/history", s.apiHistory)
			r.Get("/optimal", s.apiOptimal)
			r.Get("/trend", s.apiTrend)
			r.Get("/statistics", s.apiStatistics)
			r.Get("/recommendation", s.apiRecommendation)
		})
		r.Route("/auction", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/status", s.apiAuctionStatus)
		})
	})

	return s, nil
}

// Run starts the server and blocks until the provided context is canceled.
func (s *Server) Run(ctx context.Context) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		log.Errorf("can't listen on %s. api server quitting: %v", s.addr, err)
		return
	}

	// Close the listener on context cancellation.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := s.srv.Shutdown(context.Background()); err != nil {
			log.Errorf("HTTP server Shutdown: %v", err)
		}
	}()
	log.Infof("api server listening on %s", s.addr)
	if err := s.srv.Serve(listener); err != http.ErrServerClosed {
		log.Warnf("unexpected (http.Server).Serve error: %v", err)
	}

	wg.Wait()
	log.Infof("api server off")
}

// writeJSON marshals the provided interface and writes the bytes to the
// ResponseWriter. The response code is assumed to be StatusOK.
func writeJSON(w http.ResponseWriter, thing any) {
	writeJSONWithStatus(w, thing, http.StatusOK)
}

// writeJSONWithStatus marshals the provided interface and writes the bytes to
// the ResponseWriter with the specified response code.
func writeJSONWithStatus(w http.ResponseWriter, thing any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(thing); err != nil {
		log.Errorf("JSON encode error: %v", err)
	}
}

// apiTiers is the handler for the '/gas/tiers' API request.
func (s *Server) apiTiers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, feeTiersResult(s.core.CurrentFeeTiers()))
}

// apiCongestion is the handler for the '/gas/congestion' API request.
func (s *Server) apiCongestion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, congestionResult(s.core.CurrentCongestion()))
}

// apiHistory is the handler for the '/gas/history' API request. An optional
// "limit" query parameter trims the response to the most recent entries.
func (s *Server) apiHistory(w http.ResponseWriter, r *http.Request) {
	var limit int
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			http.Error(w, fmt.Sprintf("invalid limit %q", limitStr), http.StatusBadRequest)
			return
		}
	}
	writeJSON(w, historyResults(s.core.History(limit)))
}

// apiOptimal is the handler for the '/gas/optimal' API request. The "tier"
// query parameter defaults to standard.
func (s *Server) apiOptimal(w http.ResponseWriter, r *http.Request) {
	tierStr := r.URL.Query().Get("tier")
	if tierStr == "" {
		tierStr = "standard"
	}
	tier, err := gas.ParseTier(tierStr)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid tier %q", tierStr), http.StatusBadRequest)
		return
	}
	price, err := s.core.OptimalGasPrice(tier)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, &OptimalResult{Tier: tier.String(), Price: price.String()})
}

// apiTrend is the handler for the '/gas/trend' API request.
func (s *Server) apiTrend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, &TrendResult{Trend: string(s.advisor.Trend())})
}

// apiStatistics is the handler for the '/gas/statistics' API request.
func (s *Server) apiStatistics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, statisticsResult(s.core.Statistics()))
}

// apiRecommendation is the handler for the '/gas/recommendation' API request.
// The optional "duration" query parameter is the auction length in seconds.
func (s *Server) apiRecommendation(w http.ResponseWriter, r *http.Request) {
	var duration uint64
	if durStr := r.URL.Query().Get("duration"); durStr != "" {
		var err error
		duration, err = strconv.ParseUint(durStr, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid duration %q", durStr), http.StatusBadRequest)
			return
		}
	}
	writeJSON(w, recommendationResult(s.advisor.Advise(duration)))
}

// apiAuctionStatus is the handler for the '/auction/status' API request. It
// evaluates the posted auction curve at the current time.
func (s *Server) apiAuctionStatus(w http.ResponseWriter, r *http.Request) {
	var req AuctionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("error decoding request: %v", err), http.StatusBadRequest)
		return
	}
	spec, err := auction.New(req.StartPrice, req.EndPrice,
		time.UnixMilli(req.StartTime), time.UnixMilli(req.EndTime))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var live []float64
	if req.LivePrice != nil {
		live = append(live, *req.LivePrice)
	}
	writeJSON(w, auctionStatusResult(auction.CurrentStatus(spec, time.Now(), live...)))
}
