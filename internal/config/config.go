// Package config loads service configuration from environment variables.
// Fields declare their variable, fallback and default through struct tags, and
// the loaded result is validated as a whole so every problem is reported at
// once.
package config

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies is a comma-separated list of CIDRs or addresses whose
	// X-Real-IP and X-Forwarded-For headers are believed. Empty trusts none.
	TrustedProxies string `env:"SERVER_TRUSTED_PROXIES"`

	// APIKeys is a comma-separated list of keys accepted on the copy
	// endpoint. Empty leaves it open.
	APIKeys string `env:"SERVER_API_KEYS"`
}

// APIKeyList splits APIKeys, dropping blanks.
func (c *ServerConfig) APIKeyList() []string {
	var keys []string
	for _, k := range strings.Split(c.APIKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address is taken as a
// single-host prefix.
func (c *ServerConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, field := range strings.Split(c.TrustedProxies, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if addr, err := netip.ParseAddr(field); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(field)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", field, err)
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes, nil
}

// DatabaseConfig holds the optional PostgreSQL target for table copies.
// Without a URL the copy endpoint is disabled.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. DB_URL is accepted as well.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// CopyTimeout bounds a single COPY into a table (default: 5m)
	CopyTimeout time.Duration `env:"DB_COPY_TIMEOUT" default:"5m"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool { return c.URL != "" }

// ImportConfig bounds CSV imports.
type ImportConfig struct {
	// MaxBodyBytes caps request bodies (default: 32MB)
	MaxBodyBytes int64 `env:"IMPORT_MAX_BODY_BYTES" default:"33554432"`

	// MaxRows caps the rows of one import; 0 disables the cap (default: 100000)
	MaxRows int `env:"IMPORT_MAX_ROWS" default:"100000"`

	// Encoding is the default input encoding, a WHATWG name (default: utf-8)
	Encoding string `env:"IMPORT_ENCODING" default:"utf-8"`

	// Delimiter is the default field separator (default: ,)
	Delimiter string `env:"IMPORT_DELIMITER" default:","`

	// MaxConcurrent caps imports running at once (default: 5)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"5"`

	// MaxWait is how long an import waits for a free slot (default: 30s)
	MaxWait time.Duration `env:"IMPORT_MAX_WAIT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
