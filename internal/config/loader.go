package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	engineopts "github.com/phyten/todovet/internal/engine/opts"
)

var decoders = map[string]func([]byte, any) error{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".toml": toml.Unmarshal,
	".json": func(data []byte, v any) error {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		return dec.Decode(v)
	},
}

// sections are the keys whose values are nested tables.
var sections = map[string]bool{"auth": true, "cache": true, "auth.options": true}

// keyAliases maps alternative spellings to the canonical dotted key.
var keyAliases = map[string]string{
	"issuetracker":          "issue_tracker",
	"tracker":               "issue_tracker",
	"ignore":                "ignored",
	"ignored_paths":         "ignored",
	"customtodos":           "custom_todos",
	"tags":                  "custom_todos",
	"case_sensitive":        "match_case_sensitive",
	"max_bytes":             "max_file_bytes",
	"auth.offlineurl":       "auth.offline_url",
	"auth.tokenscache":      "auth.tokens_cache",
	"auth.options.username": "auth.username",
	"cache.disable":         "cache.disabled",
}

// fileKey stores one decoded value into a config layer.
type fileKey func(cfg *Config, value any, key string) error

func fileField[T any](field func(*Config) **T, conv func(value any, key string) (T, error)) fileKey {
	return func(cfg *Config, value any, key string) error {
		v, err := conv(value, key)
		if err != nil {
			return err
		}
		*field(cfg) = &v
		return nil
	}
}

var fileKeys = map[string]fileKey{
	"origin":               fileField(func(c *Config) **string { return &c.Origin }, asTrimmed),
	"issue_tracker":        fileField(func(c *Config) **string { return &c.IssueTracker }, asTrimmed),
	"ignored":              fileField(func(c *Config) **[]string { return &c.Ignored }, asList),
	"custom_todos":         fileField(func(c *Config) **[]string { return &c.CustomTodos }, asList),
	"match_case_sensitive": fileField(func(c *Config) **bool { return &c.MatchCaseSensitive }, asBool),
	"format":               fileField(func(c *Config) **string { return &c.Format }, asTrimmed),
	"color":                fileField(func(c *Config) **string { return &c.Color }, asTrimmed),
	"jobs":                 fileField(func(c *Config) **int { return &c.Jobs }, asInt),
	"max_file_bytes":       fileField(func(c *Config) **int { return &c.MaxFileBytes }, asInt),
	"auth.type":            fileField(func(c *Config) **string { return &c.Auth.Type }, asTrimmed),
	"auth.offline_url":     fileField(func(c *Config) **string { return &c.Auth.OfflineURL }, asTrimmed),
	"auth.tokens_cache":    fileField(func(c *Config) **string { return &c.Auth.TokensCache }, asTrimmed),
	"auth.username":        fileField(func(c *Config) **string { return &c.Auth.Username }, asString),
	"cache.path":           fileField(func(c *Config) **string { return &c.Cache.Path }, asTrimmed),
	"cache.ttl":            fileField(func(c *Config) **time.Duration { return &c.Cache.TTL }, asDuration),
	"cache.disabled":       fileField(func(c *Config) **bool { return &c.Cache.Disabled }, asBool),
}

// Load reads one config layer from a .yaml, .yml, .toml or .json file.
// Keys are matched case-insensitively with "-" and "_" interchangeable;
// unknown keys are errors. An empty path is an empty layer.
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var raw map[string]any
	if err := decode(data, &raw); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := apply(&cfg, "", raw); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func apply(cfg *Config, prefix string, table map[string]any) error {
	for rawKey, value := range table {
		key := prefix + normalizeKey(rawKey)
		if alias, ok := keyAliases[key]; ok {
			key = alias
		}
		if sections[key] {
			if value == nil {
				continue
			}
			sub, err := asTable(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if err := apply(cfg, key+".", sub); err != nil {
				return err
			}
			continue
		}
		set, ok := fileKeys[key]
		if !ok {
			return fmt.Errorf("unknown config key: %s%s", prefix, rawKey)
		}
		if err := set(cfg, value, key); err != nil {
			return err
		}
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

func asTable(v any) (map[string]any, error) {
	switch t := v.(type) {
	case map[string]any:
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, value := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a table, got %T", v)
}

func asString(value any, key string) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", fmt.Errorf("%s cannot be null", key)
	}
	return "", fmt.Errorf("expected string for %s, got %T", key, value)
}

func asTrimmed(value any, key string) (string, error) {
	s, err := asString(value, key)
	return strings.TrimSpace(s), err
}

func asBool(value any, key string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return engineopts.ParseBool(v, key)
	}
	return false, fmt.Errorf("expected bool for %s, got %T", key, value)
}

func asInt(value any, key string) (int, error) {
	var text string
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer for %s, got %v", key, v)
		}
		return int(v), nil
	case json.Number:
		text = v.String()
	case string:
		text = v
	default:
		return 0, fmt.Errorf("expected integer for %s, got %T", key, value)
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, text)
	}
	return n, nil
}

// asDuration accepts a Go duration string ("90s", "10m") or a number of
// seconds.
func asDuration(value any, key string) (time.Duration, error) {
	if s, ok := value.(string); ok {
		return ParseDuration(s, key)
	}
	n, err := asInt(value, key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return time.Duration(n) * time.Second, nil
}

// asList accepts a list of strings or one comma separated string. Blank
// entries are dropped; null is an explicit empty list.
func asList(value any, key string) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		return trimAll(engineopts.SplitMulti([]string{v})), nil
	case []string:
		return trimAll(v), nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, err := asString(item, key)
			if err != nil {
				return nil, err
			}
			items = append(items, s)
		}
		return trimAll(items), nil
	}
	return nil, fmt.Errorf("expected string or list for %s, got %T", key, value)
}

func trimAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseDuration parses a duration string; a bare integer means seconds.
func ParseDuration(raw, key string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	d, err := time.ParseDuration(s)
	if n, convErr := strconv.Atoi(s); convErr == nil {
		d, err = time.Duration(n)*time.Second, nil
	}
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must be >= 0", key)
	}
	return d, nil
}
