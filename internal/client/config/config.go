package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/filex"
)

type Config struct {
	ServerURL      string
	SessionDBPath  string
	PageSize       int
	ScrollThrottle time.Duration
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	LogLevel       string
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000/api"
	c.SessionDBPath = "~/.cinecollection/session.db"
	c.PageSize = 12
	c.ScrollThrottle = 500 * time.Millisecond
	c.SearchDebounce = 300 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig builds the configuration from os.Args and panics on a bad
// config file or flag.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load is LoadConfig with explicit arguments. A leading "~/" in
// SessionDBPath is expanded.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	p, err := filex.ExpandHome(cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	cfg.SessionDBPath = p
	return cfg, nil
}
