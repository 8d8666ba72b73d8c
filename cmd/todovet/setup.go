package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/phyten/todovet/internal/auth"
	"github.com/phyten/todovet/internal/checker"
	"github.com/phyten/todovet/internal/config"
	"github.com/phyten/todovet/internal/engine"
	engineopts "github.com/phyten/todovet/internal/engine/opts"
	"github.com/phyten/todovet/internal/execx"
	"github.com/phyten/todovet/internal/fetcher"
	"github.com/phyten/todovet/internal/gitremote"
	"github.com/phyten/todovet/internal/link"
	"github.com/phyten/todovet/internal/logging"
	"github.com/phyten/todovet/internal/statuscache"
	"github.com/phyten/todovet/internal/tracker"
)

const githubRateLimitWarning = "WARNING: Github has API rate limits for all requests which do not contain a token.\n" +
	"         Please create a read-only access token to increase that limit.\n" +
	"         Go to https://docs.github.com/rest/using-the-rest-api/rate-limits-for-the-rest-api for more information."

// deps are the process level collaborators. Tests replace them.
type deps struct {
	getenv     func(string) string
	home       string
	runner     execx.Runner
	httpClient *http.Client
	prompter   auth.Prompter
	// apiURL replaces the tracker API endpoint derived from the origin.
	apiURL string
	stdout io.Writer
	stderr io.Writer
}

func defaultDeps() deps {
	home, _ := os.UserHomeDir()
	return deps{
		getenv:     os.Getenv,
		home:       home,
		runner:     execx.DefaultRunner(),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		prompter:   auth.TerminalPrompter{In: os.Stdin, Out: os.Stderr},
		apiURL:     os.Getenv("TODOVET_API_URL"),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

// session is everything a command needs after configuration is resolved.
type session struct {
	flags      cliFlags
	settings   config.Settings
	configPath string
	log        *zap.Logger
	deps       deps

	tracker tracker.IssueTracker
	cache   *statuscache.Cache
	opts    engine.Options
	repoURL string
}

func (s *session) Close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.log.Warn("failed to close status cache", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// loadSettings resolves defaults < config file < environment < flags.
func loadSettings(ctx context.Context, cf cliFlags, d deps, log *zap.Logger) (config.Settings, string, error) {
	if err := auth.LoadEnvFile(cf.envFile); err != nil {
		return config.Settings{}, "", err
	}
	explicit := cf.configPath
	if explicit == "" {
		explicit = d.getenv(config.EnvConfig)
	}
	path, where, err := config.Find(cf.basePath, explicit, d.getenv("XDG_CONFIG_HOME"), d.home)
	if err != nil {
		return config.Settings{}, "", fmt.Errorf("couldn't open configuration file: %w", err)
	}
	var fileCfg config.Config
	if path != "" {
		log.Debug("using config file", zap.String("path", path), zap.String("found", where))
		if fileCfg, err = config.Load(path); err != nil {
			return config.Settings{}, "", fmt.Errorf("couldn't open configuration file: %w", err)
		}
	}
	envCfg, err := config.FromEnv(d.getenv)
	if err != nil {
		return config.Settings{}, "", err
	}
	flagCfg, err := cf.layer()
	if err != nil {
		return config.Settings{}, "", err
	}
	merged := config.Merge(config.DefaultSettings(d.home, engineopts.DefaultJobs()), d.home, fileCfg, envCfg, flagCfg)

	if !merged.HasTracker() && merged.Origin == "" {
		repo := gitremote.Repo{Dir: repoDir(cf.basePath), Runner: d.runner, Getenv: d.getenv}
		if info, err := repo.Remote(ctx); err == nil {
			if kind, origin, ok := tracker.FromRemote(info); ok {
				log.Debug("issue tracker detected from git remote", zap.String("tracker", string(kind)), zap.String("origin", origin))
				merged.IssueTracker = string(kind)
				merged.Origin = origin
			}
		} else {
			log.Debug("no git remote", zap.Error(err))
		}
	}
	settings, err := config.Check(merged)
	if err != nil {
		return settings, path, err
	}
	return settings, path, nil
}

// newSession loads the configuration and connects to the issue tracker.
func newSession(ctx context.Context, cf cliFlags, d deps) (*session, error) {
	log, err := logging.New(cf.verbose)
	if err != nil {
		return nil, err
	}
	settings, path, err := loadSettings(ctx, cf, d, log)
	if err != nil {
		return nil, err
	}
	s := &session{flags: cf, settings: settings, configPath: path, log: log, deps: d}

	s.opts = engineopts.Defaults(cf.basePath)
	settings.ApplyToOptions(&s.opts)
	s.opts.Logger = log
	if err := engineopts.NormalizeAndValidate(&s.opts); err != nil {
		_ = log.Sync()
		return nil, err
	}

	if !settings.HasTracker() {
		log.Warn("no issue tracker configured; only the TODO format is checked")
		return s, nil
	}
	if err := s.connect(ctx); err != nil {
		s.Close()
		return nil, err
	}
	s.linkSource(ctx)
	return s, nil
}

func (s *session) authRequest() auth.Request {
	return auth.Request{
		Tracker:     tracker.Kind(s.settings.IssueTracker),
		Type:        tracker.AuthType(s.settings.Auth.Type),
		Origin:      s.settings.Origin,
		OfflineURL:  s.settings.Auth.OfflineURL,
		TokensCache: s.settings.Auth.TokensCache,
	}
}

func (s *session) newTracker(token string) (tracker.IssueTracker, error) {
	return tracker.New(tracker.Options{
		Kind:   tracker.Kind(s.settings.IssueTracker),
		Origin: s.settings.Origin,
		Auth: tracker.Auth{
			Type:       tracker.AuthType(s.settings.Auth.Type),
			Token:      token,
			OfflineURL: s.settings.Auth.OfflineURL,
			Username:   s.settings.Auth.Username,
		},
		HTTPClient: s.deps.httpClient,
		BaseURL:    s.deps.apiURL,
	})
}

func (s *session) connect(ctx context.Context) error {
	manager := auth.NewManager(s.log)
	manager.Getenv = s.deps.getenv
	manager.Prompter = s.deps.prompter
	manager.Runner = s.deps.runner

	req := s.authRequest()
	// The instructions come from the tracker, which needs to exist first.
	probe, err := s.newTracker("placeholder")
	if err == nil {
		req.Instructions = probe.TokenInstructions()
	}
	token, err := manager.Acquire(ctx, req)
	if err != nil {
		return fmt.Errorf("couldn't acquire token from config: %w", err)
	}
	it, err := s.newTracker(token)
	if err != nil {
		return err
	}
	if err := it.Exists(ctx); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return fmt.Errorf("repository %s not found", s.settings.Origin)
		}
		return fmt.Errorf("couldn't reach %s: %w", s.settings.Origin, err)
	}
	if it.Kind() == tracker.GitHub && token == "" {
		p, _ := s.painter(s.deps.stderr)
		fmt.Fprintln(s.deps.stderr, p.Warning(githubRateLimitWarning))
	}
	s.tracker = it

	fetchOpts := []fetcher.Option{fetcher.WithHTTPClient(s.deps.httpClient), fetcher.WithLogger(s.log)}
	if !s.settings.Cache.Disabled {
		cache, err := statuscache.Open(ctx, s.settings.Cache.Path, s.settings.Cache.TTL)
		if err != nil {
			s.log.Warn("status cache disabled", zap.String("path", s.settings.Cache.Path), zap.Error(err))
		} else {
			s.cache = cache
			fetchOpts = append(fetchOpts, fetcher.WithCache(cache))
			if n, err := cache.Prune(ctx); err == nil && n > 0 {
				s.log.Debug("pruned expired cache entries", zap.Int64("rows", n))
			}
		}
	}
	f := fetcher.New(it, fetchOpts...)
	s.opts.Checker = checker.New(f, checker.WithIssueURL(it.WebURL))
	return nil
}

// linkSource links findings and the web page to the forge when the base
// path is inside a GitHub or GitLab checkout.
func (s *session) linkSource(ctx context.Context) {
	repo := gitremote.Repo{Dir: repoDir(s.opts.BasePath), Runner: s.deps.runner, Getenv: s.deps.getenv}
	info, err := repo.Remote(ctx)
	if err != nil || (!info.IsGitHub() && !info.IsGitLab()) {
		return
	}
	rev, err := repo.Head(ctx)
	if err != nil {
		s.log.Debug("no HEAD revision for source links", zap.Error(err))
		return
	}
	prefix, err := repo.Prefix(ctx)
	if err != nil {
		s.log.Debug("no repository prefix", zap.Error(err))
		prefix = ""
	}
	s.repoURL = link.Tree(info, rev)
	s.opts.SourceURL = func(file string, line int) string {
		return link.Source(info, rev, path.Join(prefix, filepath.ToSlash(file)), line)
	}
}

// repoDir is the directory git commands run in for basePath.
func repoDir(basePath string) string {
	if info, err := os.Stat(basePath); err == nil && !info.IsDir() {
		return filepath.Dir(basePath)
	}
	return basePath
}
