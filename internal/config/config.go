package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the config file location when --config is not given.
const EnvPath = "POKESRC_CONFIG"

// ErrInvalid is wrapped by Validate failures.
var ErrInvalid = errors.New("invalid config")

// Config holds all runtime settings of the CLI and the HTTP server.
type Config struct {
	// Upstream sources
	PokeAPIBaseURL string        `yaml:"pokeapi_base_url"`
	UsageBaseURL   string        `yaml:"usage_base_url"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`

	// Cache
	CachePath string        `yaml:"cache_path"` // empty = <project>/.pokesrc/cache.db
	LabelTTL  time.Duration `yaml:"label_ttl"`
	RecordTTL time.Duration `yaml:"record_ttl"` // 0 disables record caching

	// Aggregation
	CategoryLimits       map[string]int `yaml:"category_limits"`
	AggregateConcurrency int            `yaml:"aggregate_concurrency"`
	RoleBalanceThreshold int            `yaml:"role_balance_threshold"`

	// Server
	ListenAddr   string `yaml:"listen_addr"`
	SuggestLimit int    `yaml:"suggest_limit"`

	LogLevel string `yaml:"log_level"`
}

// Default returns Config with the values the hosted app uses.
func Default() Config {
	return Config{
		PokeAPIBaseURL: "https://pokeapi.co/api/v2",
		UsageBaseURL:   "https://api.pokemoem.com/battlestat/details/today",
		HTTPTimeout:    10 * time.Second,
		LabelTTL:       7 * 24 * time.Hour,
		RecordTTL:      24 * time.Hour,
		CategoryLimits: map[string]int{
			"abilities": 2,
			"natures":   2,
			"items":     2,
			"moves":     4,
		},
		AggregateConcurrency: 8,
		RoleBalanceThreshold: 15,
		ListenAddr:           "127.0.0.1:8086",
		SuggestLimit:         10,
		LogLevel:             "info",
	}
}

// Load reads config from a YAML file on top of Default.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	// Unmarshal merges into a non-nil map; a file that lists limits
	// replaces the defaults instead of extending them.
	var probe struct {
		CategoryLimits map[string]int `yaml:"category_limits"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if probe.CategoryLimits != nil {
		cfg.CategoryLimits = nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var knownCategories = map[string]bool{
	"abilities": true,
	"natures":   true,
	"items":     true,
	"moves":     true,
	"terastal":  true,
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.PokeAPIBaseURL == "":
		return fmt.Errorf("%w: pokeapi_base_url is empty", ErrInvalid)
	case c.UsageBaseURL == "":
		return fmt.Errorf("%w: usage_base_url is empty", ErrInvalid)
	case c.HTTPTimeout <= 0:
		return fmt.Errorf("%w: http_timeout must be positive", ErrInvalid)
	case c.LabelTTL < 0 || c.RecordTTL < 0:
		return fmt.Errorf("%w: ttl must not be negative", ErrInvalid)
	case c.AggregateConcurrency < 1:
		return fmt.Errorf("%w: aggregate_concurrency must be at least 1", ErrInvalid)
	case c.RoleBalanceThreshold < 0:
		return fmt.Errorf("%w: role_balance_threshold must not be negative", ErrInvalid)
	}
	for name, n := range c.CategoryLimits {
		if !knownCategories[name] {
			return fmt.Errorf("%w: unknown category %q", ErrInvalid, name)
		}
		if n < 0 {
			return fmt.Errorf("%w: category %s limit is negative", ErrInvalid, name)
		}
	}
	return nil
}

// Encode renders c as YAML, for `pokesrc config`.
func (c Config) Encode() ([]byte, error) {
	return yaml.Marshal(c)
}
