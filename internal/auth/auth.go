// Package auth obtains issue tracker tokens.
//
// Lookup order: the tokens cache, TODOVET_AUTH_TOKEN, the GitHub CLI and
// GH_TOKEN/GITHUB_TOKEN for GitHub, and finally an interactive prompt whose
// answer is written back to the tokens cache.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/phyten/todovet/internal/execx"
	"github.com/phyten/todovet/internal/tracker"
)

// EnvToken overrides the prompt without touching the tokens cache.
const EnvToken = "TODOVET_AUTH_TOKEN"

// ErrNoToken is returned when no source produced a token.
var ErrNoToken = errors.New("no authentication token")

// DefaultTokensCache returns ~/.todovet/authtokens.yaml.
func DefaultTokensCache() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("couldn't read user home directory: %w", err)
	}
	return filepath.Join(home, ".todovet", "authtokens.yaml"), nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment. Variables
// that are already set win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Request describes the token to acquire.
type Request struct {
	Tracker      tracker.Kind
	Type         tracker.AuthType
	Origin       string
	OfflineURL   string
	TokensCache  string
	Instructions string
}

// Key is the tokens cache key: the offline URL for offline auth, the origin
// otherwise.
func (r Request) Key() string {
	if r.Type == tracker.AuthOffline {
		return r.OfflineURL
	}
	return r.Origin
}

// Manager resolves tokens.
type Manager struct {
	Getenv   func(string) string
	Prompter Prompter
	Runner   execx.Runner
	Logger   *zap.Logger
	// NoPrompt turns a missing token into ErrNoToken instead of asking.
	NoPrompt bool
}

// NewManager returns a Manager wired to the process environment and terminal.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Getenv:   os.Getenv,
		Prompter: TerminalPrompter{In: os.Stdin, Out: os.Stderr},
		Runner:   execx.DefaultRunner(),
		Logger:   logger,
	}
}

// Acquire returns the token for req. Auth type none yields "".
func (m *Manager) Acquire(ctx context.Context, req Request) (string, error) {
	if req.Type == tracker.AuthNone || req.Type == "" {
		return "", nil
	}
	log := m.logger().With(zap.String("tracker", string(req.Tracker)), zap.String("key", req.Key()))

	store, err := LoadStore(req.TokensCache)
	if err != nil {
		return "", fmt.Errorf("couldn't read auth tokens config: %w", err)
	}
	if tok, ok := store.Get(req.Key()); ok {
		log.Debug("token from tokens cache")
		return tok, nil
	}
	if tok := strings.TrimSpace(m.getenv(EnvToken)); tok != "" {
		log.Debug("token from environment", zap.String("env", EnvToken))
		return tok, nil
	}
	if req.Tracker == tracker.GitHub && req.Type == tracker.AuthAPIToken {
		if tok := m.githubToken(ctx, log); tok != "" {
			return tok, nil
		}
	}
	if m.NoPrompt || m.Prompter == nil {
		return "", fmt.Errorf("%w for %s", ErrNoToken, req.Key())
	}
	instructions := req.Instructions
	if instructions == "" {
		instructions = "Please paste the access token for " + req.Key() + "."
	}
	tok, err := m.Prompter.ReadToken(instructions)
	if err != nil {
		return "", fmt.Errorf("couldn't acquire token: %w", err)
	}
	if tok == "" {
		return "", fmt.Errorf("%w for %s", ErrNoToken, req.Key())
	}
	store.Set(req.Key(), tok)
	if err := store.Save(req.TokensCache); err != nil {
		return "", err
	}
	log.Debug("token saved to tokens cache", zap.String("path", req.TokensCache))
	return tok, nil
}

// Forget removes the cached token for req.
func (m *Manager) Forget(req Request) (bool, error) {
	store, err := LoadStore(req.TokensCache)
	if err != nil {
		return false, err
	}
	if !store.Delete(req.Key()) {
		return false, nil
	}
	return true, store.Save(req.TokensCache)
}

func (m *Manager) githubToken(ctx context.Context, log *zap.Logger) string {
	for _, name := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if tok := strings.TrimSpace(m.getenv(name)); tok != "" {
			log.Debug("token from environment", zap.String("env", name))
			return tok
		}
	}
	if m.Runner == nil {
		return ""
	}
	tok, err := execx.Output(ctx, m.Runner, "", "gh", "auth", "token")
	if err != nil {
		if !execx.IsNotFound(err) {
			log.Debug("gh auth token failed", zap.Error(err))
		}
		return ""
	}
	log.Debug("token from gh auth token")
	return tok
}

func (m *Manager) getenv(key string) string {
	if m.Getenv == nil {
		return os.Getenv(key)
	}
	return m.Getenv(key)
}

func (m *Manager) logger() *zap.Logger {
	if m.Logger == nil {
		return zap.NewNop()
	}
	return m.Logger
}
