package config

import (
	"errors"
	"math"
	"strings"
	"time"

	engineopts "github.com/phyten/todovet/internal/engine/opts"
)

// EnvConfig names the variable that points at an explicit config file.
const EnvConfig = "TODOVET_CONFIG"

// envVar binds one TODOVET_* variable to a field of Config.
type envVar struct {
	key  string
	bind func(cfg *Config, raw string) error
}

func envField[T any](key string, field func(*Config) **T, parse func(raw, key string) (T, error)) envVar {
	return envVar{key: key, bind: func(cfg *Config, raw string) error {
		v, err := parse(raw, key)
		if err != nil {
			return err
		}
		*field(cfg) = &v
		return nil
	}}
}

func parseText(raw, _ string) (string, error) { return raw, nil }

func parseList(raw, _ string) ([]string, error) {
	return engineopts.SplitMulti([]string{raw}), nil
}

// parseCount accepts any non-negative integer. Upper limits are checked by
// Validate together with the other sources.
func parseCount(raw, key string) (int, error) {
	return engineopts.ParseIntInRange(raw, key, 0, math.MaxInt)
}

var envVars = []envVar{
	envField("TODOVET_ORIGIN", func(c *Config) **string { return &c.Origin }, parseText),
	envField("TODOVET_ISSUE_TRACKER", func(c *Config) **string { return &c.IssueTracker }, parseText),
	envField("TODOVET_IGNORED", func(c *Config) **[]string { return &c.Ignored }, parseList),
	envField("TODOVET_CUSTOM_TODOS", func(c *Config) **[]string { return &c.CustomTodos }, parseList),
	envField("TODOVET_MATCH_CASE_SENSITIVE", func(c *Config) **bool { return &c.MatchCaseSensitive }, engineopts.ParseBool),
	envField("TODOVET_FORMAT", func(c *Config) **string { return &c.Format }, parseText),
	envField("TODOVET_COLOR", func(c *Config) **string { return &c.Color }, parseText),
	envField("TODOVET_JOBS", func(c *Config) **int { return &c.Jobs }, parseCount),
	envField("TODOVET_MAX_FILE_BYTES", func(c *Config) **int { return &c.MaxFileBytes }, parseCount),

	envField("TODOVET_AUTH_TYPE", func(c *Config) **string { return &c.Auth.Type }, parseText),
	envField("TODOVET_AUTH_OFFLINE_URL", func(c *Config) **string { return &c.Auth.OfflineURL }, parseText),
	envField("TODOVET_TOKENS_CACHE", func(c *Config) **string { return &c.Auth.TokensCache }, parseText),
	envField("TODOVET_AUTH_USERNAME", func(c *Config) **string { return &c.Auth.Username }, parseText),

	envField("TODOVET_CACHE_PATH", func(c *Config) **string { return &c.Cache.Path }, parseText),
	envField("TODOVET_NO_CACHE", func(c *Config) **bool { return &c.Cache.Disabled }, engineopts.ParseBool),
	envField("TODOVET_CACHE_TTL", func(c *Config) **time.Duration { return &c.Cache.TTL }, ParseDuration),
}

// FromEnv reads the TODOVET_* variables into a config layer. Blank
// variables are unset. Every malformed value is reported.
func FromEnv(getenv func(string) string) (Config, error) {
	var cfg Config
	if getenv == nil {
		return cfg, nil
	}
	var errs []error
	for _, v := range envVars {
		raw := strings.TrimSpace(getenv(v.key))
		if raw == "" {
			continue
		}
		if err := v.bind(&cfg, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return cfg, errors.Join(errs...)
}
