// ABOUTME: Configuration resolver for the taskstash client
// ABOUTME: Reads service endpoint, API keys, and collection slug from environment variables

package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultAPIURL is the hosted service endpoint used when none is configured.
	DefaultAPIURL = "https://reqres.in"

	// DefaultCollection is the record collection slug used when none is configured.
	DefaultCollection = "todos"
)

// Config holds the resolved client configuration. It is immutable once
// loaded; the zero value of ProjectID is distinguished from a configured
// zero by HasProjectID.
type Config struct {
	APIURL       string
	ProjectID    int64
	HasProjectID bool
	PublicKey    string
	ManageKey    string
	Collection   string
}

// Load resolves configuration from the environment. It never fails:
// missing or malformed values are recorded as absent and surfaced through
// Warnings(). The same environment always yields the same Config.
func Load() *Config {
	cfg := &Config{
		APIURL:     normalizeBaseURL(getEnv("TASKSTASH_API_URL", DefaultAPIURL)),
		PublicKey:  getEnv("TASKSTASH_PUBLIC_KEY", ""),
		ManageKey:  getEnv("TASKSTASH_MANAGE_KEY", ""),
		Collection: getEnv("TASKSTASH_COLLECTION", DefaultCollection),
	}

	if raw := strings.TrimSpace(os.Getenv("TASKSTASH_PROJECT_ID")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.ProjectID = id
			cfg.HasProjectID = true
		}
	}

	return cfg
}

// Ready reports whether every item needed for authenticated operation is
// configured: project id, both API keys, and the collection slug.
func (c *Config) Ready() bool {
	return c.HasProjectID && c.PublicKey != "" && c.ManageKey != "" && c.Collection != ""
}

// Warnings lists each missing configuration item individually so callers
// can report exactly what is absent.
func (c *Config) Warnings() []string {
	var warnings []string
	if !c.HasProjectID {
		warnings = append(warnings, "TASKSTASH_PROJECT_ID is not set to an integer project id")
	}
	if c.PublicKey == "" {
		warnings = append(warnings, "TASKSTASH_PUBLIC_KEY is not set")
	}
	if c.ManageKey == "" {
		warnings = append(warnings, "TASKSTASH_MANAGE_KEY is not set")
	}
	if c.Collection == "" {
		warnings = append(warnings, "TASKSTASH_COLLECTION is not set")
	}
	return warnings
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// normalizeBaseURL trims a trailing slash and defaults the scheme to https
// so stored sessions compare against a canonical endpoint.
func normalizeBaseURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
