package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/phyten/todovet/internal/engine"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func stringsPtr(values ...string) *[]string {
	copied := append([]string(nil), values...)
	return &copied
}

func TestMergePrecedence(t *testing.T) {
	base := DefaultSettings("/home/me", 4)

	fileCfg := Config{
		Origin:       strPtr("github.com/o/file"),
		IssueTracker: strPtr("github"),
		Ignored:      stringsPtr("vendor/"),
		CustomTodos:  stringsPtr("@fix"),
		Auth:         AuthConfig{Type: strPtr("apitoken"), TokensCache: strPtr("~/tokens.yaml")},
		Cache:        CacheConfig{TTL: durationPtr(time.Minute)},
	}
	envCfg := Config{
		Origin:             strPtr("github.com/o/env"),
		MatchCaseSensitive: boolPtr(false),
		Ignored:            stringsPtr(),
	}
	flagCfg := Config{Jobs: intPtr(8), Format: strPtr(" json "), Cache: CacheConfig{Disabled: boolPtr(true)}}

	merged := Merge(base, "/home/me", fileCfg, envCfg, flagCfg)

	if merged.Origin != "github.com/o/env" {
		t.Fatalf("expected env origin, got %q", merged.Origin)
	}
	if merged.IssueTracker != "github" {
		t.Fatalf("expected tracker from file, got %q", merged.IssueTracker)
	}
	if len(merged.Ignored) != 0 {
		t.Fatalf("an empty env list should clear ignored, got %#v", merged.Ignored)
	}
	if !reflect.DeepEqual(merged.CustomTodos, []string{"@fix"}) {
		t.Fatalf("unexpected custom todos: %v", merged.CustomTodos)
	}
	if merged.MatchCaseSensitive {
		t.Fatal("expected case-insensitive matching from env")
	}
	if merged.Jobs != 8 || merged.Format != "json" {
		t.Fatalf("unexpected flag layer result: jobs=%d format=%q", merged.Jobs, merged.Format)
	}
	if merged.Auth.TokensCache != filepath.Join("/home/me", "tokens.yaml") {
		t.Fatalf("tokens cache not expanded: %q", merged.Auth.TokensCache)
	}
	if merged.Cache.Path != filepath.Join("/home/me", ".todovet", "cache.db") {
		t.Fatalf("unexpected cache path: %q", merged.Cache.Path)
	}
	if merged.Cache.TTL != time.Minute || !merged.Cache.Disabled {
		t.Fatalf("unexpected cache settings: %+v", merged.Cache)
	}
	if merged.Color != "auto" || merged.Auth.Type != "apitoken" {
		t.Fatalf("unexpected defaults: color=%q auth=%q", merged.Color, merged.Auth.Type)
	}
}

func durationPtr(d time.Duration) *time.Duration { return &d }

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"TODOVET_ORIGIN":               "gitlab.com/group/sub/proj",
		"TODOVET_ISSUE_TRACKER":        "GITLAB",
		"TODOVET_IGNORED":              "vendor/, testdata/",
		"TODOVET_CUSTOM_TODOS":         "@fix,FIXME",
		"TODOVET_MATCH_CASE_SENSITIVE": "off",
		"TODOVET_FORMAT":               "ndjson",
		"TODOVET_JOBS":                 "128",
		"TODOVET_COLOR":                "never",
		"TODOVET_CACHE_TTL":            "90",
		"TODOVET_NO_CACHE":             "yes",
		"TODOVET_AUTH_TYPE":            "apitoken",
		"TODOVET_AUTH_USERNAME":        "me",
	}
	cfg, err := FromEnv(func(key string) string { return env[key] })
	if err != nil {
		t.Fatalf("FromEnv returned error: %v", err)
	}
	if cfg.Origin == nil || *cfg.Origin != "gitlab.com/group/sub/proj" {
		t.Fatalf("unexpected origin: %v", ptrString(cfg.Origin))
	}
	if cfg.IssueTracker == nil || *cfg.IssueTracker != "GITLAB" {
		t.Fatalf("unexpected tracker: %v", ptrString(cfg.IssueTracker))
	}
	if cfg.Ignored == nil || !reflect.DeepEqual(*cfg.Ignored, []string{"vendor/", "testdata/"}) {
		t.Fatalf("unexpected ignored: %v", cfg.Ignored)
	}
	if cfg.CustomTodos == nil || !reflect.DeepEqual(*cfg.CustomTodos, []string{"@fix", "FIXME"}) {
		t.Fatalf("unexpected custom todos: %v", cfg.CustomTodos)
	}
	if cfg.MatchCaseSensitive == nil || *cfg.MatchCaseSensitive {
		t.Fatal("expected MatchCaseSensitive false")
	}
	if cfg.Jobs == nil || *cfg.Jobs != 128 {
		t.Fatalf("jobs should be kept for Validate, got %d", ptrInt(cfg.Jobs))
	}
	if cfg.Cache.TTL == nil || *cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("unexpected ttl: %v", cfg.Cache.TTL)
	}
	if cfg.Cache.Disabled == nil || !*cfg.Cache.Disabled {
		t.Fatal("expected cache disabled")
	}
	if cfg.Auth.Username == nil || *cfg.Auth.Username != "me" {
		t.Fatalf("unexpected username: %v", ptrString(cfg.Auth.Username))
	}
}

func TestFromEnvCollectsErrors(t *testing.T) {
	env := map[string]string{
		"TODOVET_MATCH_CASE_SENSITIVE": "maybe",
		"TODOVET_JOBS":                 "-1",
		"TODOVET_CACHE_TTL":            "soon",
	}
	_, err := FromEnv(func(key string) string { return env[key] })
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, key := range []string{"TODOVET_MATCH_CASE_SENSITIVE", "TODOVET_JOBS", "TODOVET_CACHE_TTL"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoadConfigFormats(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		".yaml": "origin: jira.example.com\nissue_tracker: JIRA\nignored:\n  - vendor/\n  - testdata/\ncustom_todos: ['@fix']\nmatch_case_sensitive: false\nauth:\n  type: apitoken\n  options:\n    username: me\ncache:\n  ttl: 5m\n",
		".toml": "origin = \"jira.example.com\"\nissue-tracker = \"JIRA\"\nignored = [\"vendor/\"]\njobs = 3\n[auth]\ntype = \"offline\"\noffline_url = \"https://jira.example.com/offline\"\n[cache]\nttl = 30\n",
		".json": "{\n  \"origin\": \"jira.example.com\",\n  \"issue_tracker\": \"JIRA\",\n  \"tags\": \"TODO, FIXME\",\n  \"cache\": {\"disabled\": true, \"path\": \"/tmp/c.db\"}\n}\n",
	}

	for ext, content := range cases {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "config"+ext)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if ptrString(cfg.Origin) != "jira.example.com" || ptrString(cfg.IssueTracker) != "JIRA" {
				t.Fatalf("unexpected origin/tracker: %q %q", ptrString(cfg.Origin), ptrString(cfg.IssueTracker))
			}
			switch ext {
			case ".yaml":
				if cfg.Ignored == nil || !reflect.DeepEqual(*cfg.Ignored, []string{"vendor/", "testdata/"}) {
					t.Fatalf("yaml ignored mismatch: %v", cfg.Ignored)
				}
				if cfg.MatchCaseSensitive == nil || *cfg.MatchCaseSensitive {
					t.Fatal("yaml match_case_sensitive should be false")
				}
				if ptrString(cfg.Auth.Username) != "me" {
					t.Fatalf("yaml username mismatch: %q", ptrString(cfg.Auth.Username))
				}
				if cfg.Cache.TTL == nil || *cfg.Cache.TTL != 5*time.Minute {
					t.Fatalf("yaml ttl mismatch: %v", cfg.Cache.TTL)
				}
			case ".toml":
				if ptrInt(cfg.Jobs) != 3 {
					t.Fatalf("toml jobs mismatch: %d", ptrInt(cfg.Jobs))
				}
				if ptrString(cfg.Auth.OfflineURL) != "https://jira.example.com/offline" {
					t.Fatalf("toml offline_url mismatch: %q", ptrString(cfg.Auth.OfflineURL))
				}
				if cfg.Cache.TTL == nil || *cfg.Cache.TTL != 30*time.Second {
					t.Fatalf("toml ttl mismatch: %v", cfg.Cache.TTL)
				}
			case ".json":
				if cfg.CustomTodos == nil || !reflect.DeepEqual(*cfg.CustomTodos, []string{"TODO", "FIXME"}) {
					t.Fatalf("json tags mismatch: %v", cfg.CustomTodos)
				}
				if cfg.Cache.Disabled == nil || !*cfg.Cache.Disabled || ptrString(cfg.Cache.Path) != "/tmp/c.db" {
					t.Fatalf("json cache mismatch: %+v", cfg.Cache)
				}
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	cases := map[string]string{
		"root":    "unknown: value\n",
		"auth":    "auth:\n  password: x\n",
		"options": "auth:\n  options:\n    token: x\n",
		"cache":   "cache:\n  size: 3\n",
		"type":    "jobs: many\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".todovet.yaml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestFindOrder(t *testing.T) {
	repoRoot := filepath.Join(t.TempDir(), "repo")
	if mkErr := os.MkdirAll(filepath.Join(repoRoot, "sub", "dir"), 0o755); mkErr != nil {
		t.Fatalf("mkdir: %v", mkErr)
	}
	repoConfig := filepath.Join(repoRoot, ".todovet.yaml")
	if writeErr := os.WriteFile(repoConfig, []byte("origin: x\n"), 0o644); writeErr != nil {
		t.Fatalf("write repo config: %v", writeErr)
	}
	path, where, err := Find(filepath.Join(repoRoot, "sub", "dir"), "", "", "")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if path != repoConfig || where != "cwd-up" {
		t.Fatalf("unexpected result: path=%s where=%s", path, where)
	}

	explicit := filepath.Join(t.TempDir(), "custom.toml")
	if writeErr := os.WriteFile(explicit, []byte("origin='x'\n"), 0o644); writeErr != nil {
		t.Fatalf("write explicit: %v", writeErr)
	}
	path, where, err = Find(repoRoot, explicit, "", "")
	if err != nil {
		t.Fatalf("Find explicit failed: %v", err)
	}
	if path != explicit || where != "explicit" {
		t.Fatalf("expected explicit config, got path=%s where=%s", path, where)
	}

	xdgHome := t.TempDir()
	if mkErr := os.MkdirAll(filepath.Join(xdgHome, "todovet"), 0o755); mkErr != nil {
		t.Fatalf("mkdir xdg: %v", mkErr)
	}
	xdgPath := filepath.Join(xdgHome, "todovet", "config.json")
	if writeErr := os.WriteFile(xdgPath, []byte("{}"), 0o644); writeErr != nil {
		t.Fatalf("write xdg: %v", writeErr)
	}
	path, where, err = Find(t.TempDir(), "", xdgHome, "")
	if err != nil {
		t.Fatalf("Find xdg failed: %v", err)
	}
	if path != xdgPath || where != "xdg" {
		t.Fatalf("expected xdg config, got path=%s where=%s", path, where)
	}

	homeDir := t.TempDir()
	homePath := filepath.Join(homeDir, ".todovet.toml")
	if writeErr := os.WriteFile(homePath, []byte("origin='x'\n"), 0o644); writeErr != nil {
		t.Fatalf("write home: %v", writeErr)
	}
	path, where, err = Find(t.TempDir(), "", "", homeDir)
	if err != nil {
		t.Fatalf("Find home failed: %v", err)
	}
	if path != homePath || where != "home" {
		t.Fatalf("expected home config, got path=%s where=%s", path, where)
	}
}

func TestFindExplicitMissing(t *testing.T) {
	_, _, err := Find(".", filepath.Join(t.TempDir(), "nope.yaml"), "", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	valid := DefaultSettings("/home/me", 2)
	valid.IssueTracker = "github"
	valid.Origin = "github.com/o/r"
	valid.Format = "JSON"
	got, err := Check(valid)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if got.IssueTracker != "GITHUB" || got.Format != "json" || got.Auth.Type != "none" {
		t.Fatalf("unexpected normalized settings: %+v", got)
	}

	cases := []struct {
		name string
		edit func(*Settings)
		want []string
	}{
		{"invalid tracker", func(s *Settings) { s.IssueTracker = "TRELLO"; s.Origin = "x" }, []string{`invalid issue tracker: "TRELLO" is not supported`}},
		{"bad origin", func(s *Settings) { s.IssueTracker = "GITLAB"; s.Origin = "gitlab" }, []string{"gitlab is not a valid origin for issue tracker GITLAB"}},
		{"offline without url", func(s *Settings) {
			s.IssueTracker = "JIRA"
			s.Origin = "jira.example.com"
			s.Auth.Type = "offline"
		}, []string{`auth type chosen was "offline" but "offline_url" is not set`}},
		{"offline bad url", func(s *Settings) {
			s.IssueTracker = "JIRA"
			s.Origin = "jira.example.com"
			s.Auth.Type = "offline"
			s.Auth.OfflineURL = "not a url"
		}, []string{`invalid offline URL: "not a url"`}},
		{"offline unsupported", func(s *Settings) {
			s.IssueTracker = "GITHUB"
			s.Origin = "github.com/o/r"
			s.Auth.Type = "offline"
			s.Auth.OfflineURL = "https://example.com/offline"
		}, []string{"unsupported authentication type for GITHUB: offline"}},
		{"jira username", func(s *Settings) {
			s.IssueTracker = "JIRA"
			s.Origin = "jira.example.com"
			s.Auth.Type = "apitoken"
		}, []string{"requires username"}},
		{"origin without tracker", func(s *Settings) { s.Origin = "github.com/o/r" }, []string{"issue_tracker is not"}},
		{"all at once", func(s *Settings) {
			s.Format = "xml"
			s.Color = "rainbow"
			s.Jobs = 0
			s.MaxFileBytes = -1
		}, []string{"invalid --format", "unknown color mode", "jobs must be between", "max_file_bytes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings("/home/me", 2)
			tc.edit(&s)
			_, err := Check(s)
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tc.want {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("error %q does not contain %q", err, want)
				}
			}
		})
	}
}

func TestApplyToOptions(t *testing.T) {
	s := DefaultSettings("/home/me", 3)
	s.Ignored = []string{"vendor"}
	s.MatchCaseSensitive = false
	s.MaxFileBytes = 1024
	opts := engine.Options{Tags: []string{"TODO"}}
	s.ApplyToOptions(&opts)
	if !reflect.DeepEqual(opts.Tags, []string{"TODO"}) {
		t.Fatalf("tags should keep defaults when custom_todos is empty: %v", opts.Tags)
	}
	if opts.Jobs != 3 || opts.CaseSensitive || opts.MaxFileBytes != 1024 || !reflect.DeepEqual(opts.Ignored, []string{"vendor"}) {
		t.Fatalf("unexpected options: %+v", opts)
	}
	s.CustomTodos = []string{"@fix"}
	s.ApplyToOptions(&opts)
	if !reflect.DeepEqual(opts.Tags, []string{"@fix"}) {
		t.Fatalf("custom_todos should replace tags: %v", opts.Tags)
	}
}

func TestExpandHome(t *testing.T) {
	if got := ExpandHome("~/x/y", "/h"); got != filepath.Join("/h", "x", "y") {
		t.Fatalf("ExpandHome = %q", got)
	}
	if got := ExpandHome("/abs", "/h"); got != "/abs" {
		t.Fatalf("ExpandHome = %q", got)
	}
	if got := ExpandHome("~/x", ""); got != "~/x" {
		t.Fatalf("ExpandHome = %q", got)
	}
}

func ptrString(v *string) string {
	if v == nil {
		return "<nil>"
	}
	return *v
}

func ptrInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
