package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Data configuration
	StorePath  string `long:"store-path" env:"STORE_PATH" default:"./data/ref_links.csv" description:"Path to the platform CSV file"`
	TargetsDir string `long:"targets-dir" env:"TARGETS_DIR" default:"./targets" description:"Directory containing fetcher target configuration files"`

	// Application configuration
	Port               string `long:"port" env:"PORT" default:"3001" description:"HTTP server port"`
	FetchDelay         int    `long:"fetch-delay" env:"FETCH_DELAY" default:"500" description:"Delay between fetched targets in milliseconds"`
	APIAccessKey       string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key protecting the update endpoint (optional)"`
	EnrichDescriptions bool   `long:"enrich-descriptions" env:"ENRICH_DESCRIPTIONS" description:"Fill empty platform descriptions from official websites"`
	RunUpdate          bool   `long:"update" description:"Run the update procedure once and exit"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		StorePath:          raw.StorePath,
		TargetsDir:         raw.TargetsDir,
		Port:               raw.Port,
		FetchDelay:         raw.FetchDelay,
		APIAccessKey:       raw.APIAccessKey,
		EnrichDescriptions: raw.EnrichDescriptions,
		RunUpdate:          raw.RunUpdate,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
