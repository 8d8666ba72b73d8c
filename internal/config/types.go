package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/phyten/todovet/internal/engine"
)

type AuthConfig struct {
	Type        *string `yaml:"type" toml:"type" json:"type"`
	OfflineURL  *string `yaml:"offline_url" toml:"offline_url" json:"offline_url"`
	TokensCache *string `yaml:"tokens_cache" toml:"tokens_cache" json:"tokens_cache"`
	Username    *string `yaml:"username" toml:"username" json:"username"`
}

type CacheConfig struct {
	Path     *string        `yaml:"path" toml:"path" json:"path"`
	TTL      *time.Duration `yaml:"ttl" toml:"ttl" json:"ttl"`
	Disabled *bool          `yaml:"disabled" toml:"disabled" json:"disabled"`
}

// Config is one layer of configuration. nil fields are unset and leave the
// lower layer untouched.
type Config struct {
	Origin             *string   `yaml:"origin" toml:"origin" json:"origin"`
	IssueTracker       *string   `yaml:"issue_tracker" toml:"issue_tracker" json:"issue_tracker"`
	Ignored            *[]string `yaml:"ignored" toml:"ignored" json:"ignored"`
	CustomTodos        *[]string `yaml:"custom_todos" toml:"custom_todos" json:"custom_todos"`
	MatchCaseSensitive *bool     `yaml:"match_case_sensitive" toml:"match_case_sensitive" json:"match_case_sensitive"`
	Format             *string   `yaml:"format" toml:"format" json:"format"`
	Color              *string   `yaml:"color" toml:"color" json:"color"`
	Jobs               *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	MaxFileBytes       *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`

	Auth  AuthConfig  `yaml:"auth" toml:"auth" json:"auth"`
	Cache CacheConfig `yaml:"cache" toml:"cache" json:"cache"`
}

type AuthSettings struct {
	Type        string
	OfflineURL  string
	TokensCache string
	Username    string
}

type CacheSettings struct {
	Path     string
	TTL      time.Duration
	Disabled bool
}

// Settings is the fully merged configuration.
type Settings struct {
	Origin             string
	IssueTracker       string
	Ignored            []string
	CustomTodos        []string
	MatchCaseSensitive bool
	Format             string
	Color              string
	Jobs               int
	MaxFileBytes       int

	Auth  AuthSettings
	Cache CacheSettings
}

// DefaultSettings returns the baseline for a user whose home directory is home.
func DefaultSettings(home string, jobs int) Settings {
	state := filepath.Join(home, ".todovet")
	return Settings{
		MatchCaseSensitive: true,
		Format:             "standard",
		Color:              "auto",
		Jobs:               jobs,
		Auth: AuthSettings{
			Type:        "none",
			TokensCache: filepath.Join(state, "authtokens.yaml"),
		},
		Cache: CacheSettings{
			Path: filepath.Join(state, "cache.db"),
			TTL:  10 * time.Minute,
		},
	}
}

// ApplyToOptions copies the scan related settings into opts. Checker and
// SourceURL are wired separately.
func (s Settings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.Ignored = cloneStrings(s.Ignored)
	if len(s.CustomTodos) > 0 {
		opts.Tags = cloneStrings(s.CustomTodos)
	}
	opts.CaseSensitive = s.MatchCaseSensitive
	opts.Jobs = s.Jobs
	opts.MaxFileBytes = s.MaxFileBytes
}

// HasTracker reports whether issue lookups are configured.
func (s Settings) HasTracker() bool {
	return strings.TrimSpace(s.IssueTracker) != ""
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
