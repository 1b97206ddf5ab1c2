package storage

import (
	"net/url"
	"strings"
)

// IsPostgresConnString reports whether the config value is a PostgreSQL
// connection string rather than a SQLite file path.
func IsPostgresConnString(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password inline. Credentials must come from the environment,
// .pgpass, or the OS keyring instead.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			// Unparseable strings are treated as unsafe.
			return true
		}
		if u.User != nil {
			if _, isSet := u.User.Password(); isSet {
				return true
			}
		}
		return false
	}

	// DSN format: space-separated key=value pairs.
	for _, pair := range strings.Fields(connStr) {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
			return true
		}
	}
	return false
}
