// Package config provides environment-driven configuration for
// scraperctl and for embedders of the engine, grounded on the teacher's
// config.go/env.go (CollectorConfig, EnvMap, ProcessEnv pattern) but
// retargeted at scraperdriver's run options instead of colly's Collector
// fields.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-tunable knob scraperctl exposes.
// The zero value is not the defaults; start from DefaultConfig().
type Config struct {
	NumWorkers          int
	RequestsPerSecond   float64
	AdaptiveRateLimit   bool
	UserAgent           string
	StorageDir          string
	IgnoreRobotsTxt     bool
	WARCOutputDir       string
	WARCEnabled         bool
	DuplicateCheckStore string // "mem", "badger", or "sqlite3"
	DuplicateCheckPath  string
}

// DefaultConfig mirrors the teacher's NewConfig defaults: single worker,
// no rate limit, robots.txt honored, in-memory dedup store.
func DefaultConfig() Config {
	return Config{
		NumWorkers:          1,
		RequestsPerSecond:   0,
		AdaptiveRateLimit:   true,
		UserAgent:           "scraperdriver",
		StorageDir:          os.TempDir(),
		IgnoreRobotsTxt:     false,
		WARCEnabled:         false,
		DuplicateCheckStore: "mem",
	}
}

// envSetter applies the string value of one environment variable onto c.
type envSetter func(c *Config, value string) error

// EnvMap mirrors the teacher's config.go EnvMap: an explicit table of
// environment variable name to the field it sets, rather than reflection
// over struct tags.
var EnvMap = map[string]envSetter{
	"SCRAPERDRIVER_NUM_WORKERS": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.NumWorkers = n
		return nil
	},
	"SCRAPERDRIVER_REQUESTS_PER_SECOND": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.RequestsPerSecond = f
		return nil
	},
	"SCRAPERDRIVER_ADAPTIVE_RATE_LIMIT": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.AdaptiveRateLimit = b
		return nil
	},
	"SCRAPERDRIVER_USER_AGENT": func(c *Config, v string) error {
		c.UserAgent = v
		return nil
	},
	"SCRAPERDRIVER_STORAGE_DIR": func(c *Config, v string) error {
		c.StorageDir = v
		return nil
	},
	"SCRAPERDRIVER_IGNORE_ROBOTS_TXT": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.IgnoreRobotsTxt = b
		return nil
	},
	"SCRAPERDRIVER_WARC_OUTPUT_DIR": func(c *Config, v string) error {
		c.WARCOutputDir = v
		c.WARCEnabled = v != ""
		return nil
	},
	"SCRAPERDRIVER_DUPLICATE_CHECK_STORE": func(c *Config, v string) error {
		c.DuplicateCheckStore = strings.ToLower(v)
		return nil
	},
	"SCRAPERDRIVER_DUPLICATE_CHECK_PATH": func(c *Config, v string) error {
		c.DuplicateCheckPath = v
		return nil
	},
}

// ProcessEnv applies every recognized SCRAPERDRIVER_* environment
// variable currently set onto c, following the teacher's ProcessEnv.
func ProcessEnv(c *Config) error {
	for name, set := range EnvMap {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			continue
		}
		if err := set(c, v); err != nil {
			return err
		}
	}
	return nil
}

// LoadDotEnv loads key=value pairs from path (typically ".env") into the
// process environment via godotenv, silently doing nothing if path does
// not exist.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load builds a Config starting from DefaultConfig, optionally loading a
// dotenv file first, then applying ProcessEnv on top.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := LoadDotEnv(dotenvPath); err != nil {
			return Config{}, err
		}
	}
	c := DefaultConfig()
	if err := ProcessEnv(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
