package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"unitables/internal/components/config"
	"unitables/internal/components/fetch"
	"unitables/internal/components/telemetry"
	"unitables/internal/scrapers/hse"
)

type FetchConfig struct {
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RetryCount        *int    `json:"retry_count"`
	RetryWaitMs       int     `json:"retry_wait_ms"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CacheTTLSeconds   int     `json:"cache_ttl_seconds"`
	CacheSize         int     `json:"cache_size"`
	UserAgent         string  `json:"user_agent"`
	// DumpDir receives a text dump of every http exchange when set.
	DumpDir string `json:"dump_dir"`
}

type Config struct {
	URLs  hse.URLs             `json:"urls"`
	Fetch FetchConfig          `json:"fetch"`
	Otlp  telemetry.OtlpConfig `json:"otlp"`
}

// readConfig looks for the config file in the working directory and its
// parents, a missing file leaves every setting at its default.
func readConfig(name string) (Config, error) {
	cfg, err := config.ReadRecursively[Config](name)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", name, err)
	}
	return cfg, nil
}

// options applies the configured overrides to fetch.DefaultOptions, zero
// values keep the default.
func (c FetchConfig) options() (fetch.Options, error) {
	opts := fetch.DefaultOptions()
	if c.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.RetryCount != nil {
		opts.RetryCount = *c.RetryCount
	}
	if c.RetryWaitMs > 0 {
		opts.RetryWait = time.Duration(c.RetryWaitMs) * time.Millisecond
	}
	if c.RequestsPerSecond != 0 {
		opts.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.CacheTTLSeconds > 0 {
		opts.CacheTTL = time.Duration(c.CacheTTLSeconds) * time.Second
	}
	if c.CacheSize > 0 {
		opts.CacheSize = c.CacheSize
	}
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	if c.DumpDir != "" {
		output, err := telemetry.NewFilesystemOutput(c.DumpDir)
		if err != nil {
			return fetch.Options{}, err
		}
		opts.Dump = output
	}
	return opts, nil
}
