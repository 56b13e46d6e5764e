package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DatabaseDSN builds the postgres connection string for the session store backend
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// RedisAddr returns host:port for the redis session store backend
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// ReportArchiveEnabled reports whether an object-storage bucket is configured
func (c *Config) ReportArchiveEnabled() bool {
	return c.Report.Endpoint != "" && c.Report.Bucket != "" && c.Report.AccessKey != ""
}

// ListenAddr returns host:port for the screen API. The host defaults to
// loopback so only this machine reaches the signed-in session.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// OriginAllowed reports whether a browser origin may use the screen API.
// Only an explicit "*" entry opens it to every origin.
func (c *Config) OriginAllowed(origin string) bool {
	origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
	for _, allowed := range c.Server.CorsAllowedOrigins {
		allowed = strings.TrimSuffix(strings.TrimSpace(allowed), "/")
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// SameHost reports whether origin points at host, the Host header of the
// request it came with
func SameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}
