package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/cinecollection/internal/flagx"
)

// parseFlags overlays:
//
//	-a string          API base URL
//	-db string         session database file
//	-page-size int     entries per listing page
//	-throttle dur      minimum interval between scroll-triggered loads
//	-debounce dur      search input quiet period
//	-timeout dur       per-request timeout
//	-log-level string
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-db", "-page-size", "-throttle", "-debounce", "-timeout", "-log-level"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "API base URL")
	fs.StringVar(&cfg.SessionDBPath, "db", cfg.SessionDBPath, "session database path")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "entries per page")
	fs.DurationVar(&cfg.ScrollThrottle, "throttle", cfg.ScrollThrottle, "scroll throttle")
	fs.DurationVar(&cfg.SearchDebounce, "debounce", cfg.SearchDebounce, "search debounce")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
