// Package config loads runtime configuration for the CineCollection CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c or -config.
//  3. Command-line flags.
//
// Durations in the JSON file are strings like "500ms" or integer
// nanoseconds:
//
//	{
//	  "server_url": "https://cine.example.com/api",
//	  "session_db_path": "~/.cinecollection/session.db",
//	  "page_size": 12,
//	  "scroll_throttle": "500ms",
//	  "search_debounce": "300ms",
//	  "request_timeout": "10s"
//	}
package config
