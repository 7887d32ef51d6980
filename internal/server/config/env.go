package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

type lookupFunc func(key string) (string, bool)

// envLookup reads the dotenv file named by -env-file (or ./.env when present)
// and returns a lookup where real environment variables win over the file.
func envLookup(args []string) (lookupFunc, error) {
	path := flagx.StringFlag(args, "env-file")
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			vars = map[string]string{}
		} else {
			return nil, fmt.Errorf("read env file %s: %w", path, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// parseEnv applies the environment variables the original deployment used
// (PORT, DATABASE_URL, JWT_SECRET) plus the CINE_* and S3_* settings.
func parseEnv(c *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	if port, ok := lookup("PORT"); ok && port != "" {
		c.EndpointAddrHTTP = ":" + port
	}
	str("CINE_ADDR", &c.EndpointAddrHTTP)
	str("DATABASE_URL", &c.DatabaseDSN)
	str("JWT_SECRET", &c.SecretKey)
	str("CINE_LOG_LEVEL", &c.LogLevel)
	str("CINE_LOG_FORMAT", &c.LogFormat)
	str("S3_ROOT_USER", &c.S3RootUser)
	str("S3_ROOT_PASSWORD", &c.S3RootPassword)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_BASE_ENDPOINT", &c.S3BaseEndpoint)
	str("S3_PUBLIC_BASE_URL", &c.S3PublicBaseURL)

	if v, ok := lookup("JWT_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_TTL: %w", err)
		}
		c.AccessTokenValidityDuration = d
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BCRYPT_COST", &c.BcryptCost},
		{"CINE_DEFAULT_PAGE_SIZE", &c.DefaultPageSize},
		{"CINE_MAX_PAGE_SIZE", &c.MaxPageSize},
		{"CINE_AUTH_RATE_LIMIT", &c.AuthRateLimit},
	}
	for _, it := range ints {
		v, ok := lookup(it.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", it.key, err)
		}
		*it.dst = n
	}
	return nil
}
