package ratelimit

import (
	"strconv"
	"strings"
	"time"
)

// Environment variables read by LoadConfig.
const (
	EnvEnabled   = "INTERVIEW_RATE_LIMIT_ENABLED"
	EnvLimit     = "INTERVIEW_RATE_LIMIT_DEFAULT_LIMIT"
	EnvWindow    = "INTERVIEW_RATE_LIMIT_DEFAULT_WINDOW"
	EnvAllowList = "INTERVIEW_RATE_LIMIT_ALLOW"
	EnvDenyList  = "INTERVIEW_RATE_LIMIT_DENY"
)

// Rule limits one method and path. A path ending in "/" matches by prefix.
type Rule struct {
	Path   string
	Method string
	// Limit is requests per Window; 0 means unlimited.
	Limit  int
	Window time.Duration
	// Burst is the bucket capacity, Limit when 0.
	Burst int
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Allow           map[string]bool
	Deny            map[string]bool
	Rules           []Rule
}

// DefaultConfig returns the limits used by the interview API.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Allow:           map[string]bool{},
		Deny:            map[string]bool{},
		Rules:           DefaultRules(),
	}
}

// DefaultRules limits the routes that call the interview backend. Starting a
// session is the most expensive call since it generates the first question.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/session/start", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/session/answer", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/session/end", Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/resume", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/health", Method: "GET"},
		{Path: "/session/events", Method: "GET"},
	}
}

// LoadConfig builds a config from DefaultConfig with overrides read through getenv.
func LoadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	if v, err := strconv.ParseBool(getenv(EnvEnabled)); err == nil {
		cfg.Enabled = v
	}
	if v, err := strconv.Atoi(getenv(EnvLimit)); err == nil && v > 0 {
		cfg.DefaultLimit = v
	}
	if v, err := time.ParseDuration(getenv(EnvWindow)); err == nil && v > 0 {
		cfg.DefaultWindow = v
	}
	cfg.Allow = parseList(getenv(EnvAllowList))
	cfg.Deny = parseList(getenv(EnvDenyList))
	return cfg
}

func parseList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result[item] = true
		}
	}
	return result
}
