// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

// Package app holds configuration and logging setup for the dutchexd daemon.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "dutchexd.conf"
	defaultLogFilename    = "dutchexd.log"
	defaultLogDirname     = "logs"
	defaultLogLevel       = "info"
	defaultListen         = "127.0.0.1:7778"
	defaultPollInterval   = 15 * time.Second
	defaultSimBase        = 20
	defaultSimPeriod      = 10 * time.Minute
)

var (
	defaultApplicationDirectory = dcrutil.AppDataDir("dutchexd", false)
)

// Config is the dutchexd configuration, populated from defaults, then the
// config file, then command line options, in increasing priority.
type Config struct {
	AppData    string `long:"appdata" description:"Path to application directory."`
	ConfigPath string `long:"config" description:"Path to an INI configuration file."`
	ShowVer    bool   `short:"V" long:"version" description:"Display version information and exit."`

	Listen     string `long:"listen" description:"API server listen address."`
	DebugLevel string `long:"log" description:"Logging level {trace, debug, info, warn, error, critical}, or <subsystem>=<level> pairs."`
	LocalLogs  bool   `long:"loglocal" description:"Use local time zone time stamps in log entries."`

	Source       string        `long:"gassource" choice:"sim" choice:"evm" choice:"station" description:"Gas sample source."`
	PollInterval time.Duration `long:"pollinterval" description:"Gas sample poll interval."`
	EVMEndpoint  string        `long:"evmendpoint" description:"EVM node RPC endpoint (gassource=evm)."`
	StationURL   string        `long:"stationurl" description:"Gas station endpoint URL (gassource=station)."`
	SimBase      uint64        `long:"simbase" description:"Simulated base standard-tier price (gassource=sim)."`
	SimPeriod    time.Duration `long:"simperiod" description:"Simulated price wave period (gassource=sim)."`

	// LogPath is set in Configure, not via options.
	LogPath string
}

func defaultConfig() *Config {
	return &Config{
		AppData:      defaultApplicationDirectory,
		Listen:       defaultListen,
		DebugLevel:   defaultLogLevel,
		Source:       "sim",
		PollInterval: defaultPollInterval,
		SimBase:      defaultSimBase,
		SimPeriod:    defaultSimPeriod,
	}
}

// Configure processes the application config. Options take precedence over
// the config file, which takes precedence over defaults.
func Configure() (*Config, error) {
	// Pre-parse the command line options looking for an alternative config
	// file or different application directory.
	preCfg := defaultConfig()
	preParser := flags.NewParser(preCfg, flags.HelpFlag|flags.PassDoubleDash)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, err
	}

	if preCfg.AppData != defaultApplicationDirectory {
		preCfg.AppData, err = filepath.Abs(preCfg.AppData)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve appdata directory: %w", err)
		}
	}

	isDefaultConfigFile := preCfg.ConfigPath == ""
	if isDefaultConfigFile {
		preCfg.ConfigPath = filepath.Join(preCfg.AppData, defaultConfigFilename)
	} else if !filepath.IsAbs(preCfg.ConfigPath) {
		preCfg.ConfigPath = filepath.Join(preCfg.AppData, preCfg.ConfigPath)
	}

	cfg := defaultConfig()
	cfg.AppData = preCfg.AppData
	parser := flags.NewParser(cfg, flags.Default)

	// Load additional config from file. A missing default config file is not
	// an error.
	if _, err := os.Stat(preCfg.ConfigPath); os.IsNotExist(err) {
		if !isDefaultConfigFile {
			return nil, fmt.Errorf("config file does not exist at %q", preCfg.ConfigPath)
		}
	} else {
		err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, err
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	switch cfg.Source {
	case "evm":
		if cfg.EVMEndpoint == "" {
			return nil, fmt.Errorf("gassource=evm requires an evmendpoint")
		}
	case "station":
		if cfg.StationURL == "" {
			return nil, fmt.Errorf("gassource=station requires a stationurl")
		}
	}

	cfg.LogPath = filepath.Join(cfg.AppData, defaultLogDirname, defaultLogFilename)
	return cfg, nil
}
