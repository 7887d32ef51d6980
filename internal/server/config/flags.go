package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/cinecollection/internal/flagx"
)

var flagNames = []string{"-a", "-d", "-s", "-t", "-bcrypt-cost", "-page-size", "-max-page-size",
	"-auth-rate", "-log-level", "-log-format", "-u", "-p", "-b", "-g", "-e", "-public-url"}

// parseFlags overlays command-line flags:
//
//	-a string         HTTP listen address (":5000")
//	-d string         PostgreSQL DSN
//	-s string         JWT HMAC secret
//	-t duration       token validity ("24h")
//	-bcrypt-cost int  bcrypt work factor
//	-page-size int    default listing page size
//	-max-page-size    listing page size cap
//	-auth-rate int    auth requests per minute per IP (0 disables)
//	-log-level, -log-format
//	-u, -p, -b, -g, -e, -public-url   S3 user, password, bucket, region, endpoint, public base URL
//
// Only the flags above are looked at; -c and -env-file are handled earlier.
func parseFlags(c *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.EndpointAddrHTTP, "a", c.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.SecretKey, "s", c.SecretKey, "JWT secret key")
	fs.DurationVar(&c.AccessTokenValidityDuration, "t", c.AccessTokenValidityDuration, "token validity")
	fs.IntVar(&c.BcryptCost, "bcrypt-cost", c.BcryptCost, "bcrypt cost")
	fs.IntVar(&c.DefaultPageSize, "page-size", c.DefaultPageSize, "default page size")
	fs.IntVar(&c.MaxPageSize, "max-page-size", c.MaxPageSize, "max page size")
	fs.IntVar(&c.AuthRateLimit, "auth-rate", c.AuthRateLimit, "auth requests per minute per IP")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (json|text)")
	fs.StringVar(&c.S3RootUser, "u", c.S3RootUser, "S3 root user")
	fs.StringVar(&c.S3RootPassword, "p", c.S3RootPassword, "S3 root password")
	fs.StringVar(&c.S3Bucket, "b", c.S3Bucket, "S3 bucket")
	fs.StringVar(&c.S3Region, "g", c.S3Region, "S3 region")
	fs.StringVar(&c.S3BaseEndpoint, "e", c.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&c.S3PublicBaseURL, "public-url", c.S3PublicBaseURL, "public base URL for stored posters")

	return fs.Parse(flagx.FilterArgs(args, flagNames))
}
