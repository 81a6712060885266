// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"

	"github.com/dutchex/dutchex/api"
	"github.com/dutchex/dutchex/app"
	"github.com/dutchex/dutchex/auction"
	"github.com/dutchex/dutchex/gas"
)

const appName = "dutchexd"

var version = "0.1.0-pre"

func main() {
	// Wrap the actual main so defers run in it.
	if err := mainCore(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func mainCore() error {
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel() // don't leak on the earliest returns

	cfg, err := app.Configure()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if cfg.ShowVer {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n",
			appName, version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	}

	// Initialize logging.
	logMaker, closeLogger, err := app.InitLogging(cfg.LogPath, cfg.DebugLevel, !cfg.LocalLogs)
	if err != nil {
		return err
	}
	defer closeLogger()
	log := logMaker.Logger("MAIN")
	log.Infof("%s version %s (Go version %s)", appName, version, runtime.Version())

	// Build the configured gas sample source.
	var source gas.SampleSource
	switch cfg.Source {
	case "evm":
		evmSource, err := gas.NewEVMSource(appCtx, cfg.EVMEndpoint, logMaker.Logger("EVM"))
		if err != nil {
			return fmt.Errorf("error creating EVM source: %w", err)
		}
		defer evmSource.Close()
		source = evmSource
	case "station":
		source = gas.NewStationSource(cfg.StationURL, logMaker.Logger("STATION"))
	default:
		source = gas.NewSimSource(cfg.SimBase, cfg.SimPeriod)
	}
	log.Infof("Sampling gas via the %q source every %s", cfg.Source, cfg.PollInterval)

	tracker := gas.NewTracker(source, logMaker.Logger("GAS"))
	tracker.StartMonitoring(cfg.PollInterval)
	defer tracker.StopMonitoring()

	api.UseLogger(logMaker.Logger("API"))
	srv, err := api.NewServer(&api.SrvConfig{
		Core:    tracker,
		Advisor: auction.NewAdvisor(tracker),
		Addr:    cfg.Listen,
	})
	if err != nil {
		return fmt.Errorf("failed to create api server: %w", err)
	}

	// Catch interrupt signal (e.g. ctrl+c) and begin shutdown.
	killChan := make(chan os.Signal, 1)
	signal.Notify(killChan, os.Interrupt)
	go func() {
		<-killChan
		log.Infof("Shutting down...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		srv.Run(appCtx)
		cancel() // in the event that Run returns prematurely prior to context cancellation
	}()
	wg.Wait()

	log.Infof("Exiting %s main.", appName)
	return nil
}
