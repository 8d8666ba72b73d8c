package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/phyten/todovet/internal/tracker"
)

type fakePrompter struct {
	token        string
	instructions string
	calls        int
}

func (f *fakePrompter) ReadToken(instructions string) (string, error) {
	f.calls++
	f.instructions = instructions
	return f.token, nil
}

type fakeRunner struct {
	out   string
	err   error
	calls int
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	f.calls++
	return []byte(f.out), nil, f.err
}

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func newRequest(t *testing.T, kind tracker.Kind) Request {
	t.Helper()
	return Request{
		Tracker:      kind,
		Type:         tracker.AuthAPIToken,
		Origin:       "gitlab.com/o/r",
		TokensCache:  filepath.Join(t.TempDir(), "todovet", "authtokens.yaml"),
		Instructions: "Please go somewhere.",
	}
}

func TestAcquireNone(t *testing.T) {
	m := &Manager{Getenv: env(nil), Prompter: &fakePrompter{token: "x"}}
	tok, err := m.Acquire(context.Background(), Request{Type: tracker.AuthNone})
	if err != nil || tok != "" {
		t.Fatalf("Acquire(none) = %q, %v", tok, err)
	}
}

func TestAcquirePromptsAndPersists(t *testing.T) {
	req := newRequest(t, tracker.GitLab)
	p := &fakePrompter{token: "secret"}
	m := &Manager{Getenv: env(nil), Prompter: p}

	tok, err := m.Acquire(context.Background(), req)
	if err != nil || tok != "secret" {
		t.Fatalf("Acquire = %q, %v", tok, err)
	}
	if p.instructions != "Please go somewhere." {
		t.Fatalf("instructions = %q", p.instructions)
	}
	info, err := os.Stat(filepath.Dir(req.TokensCache))
	if err != nil {
		t.Fatalf("tokens cache dir missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != DirPerm {
		t.Fatalf("dir perm = %o, want %o", perm, DirPerm)
	}

	// the second run reads the cache without prompting
	tok, err = m.Acquire(context.Background(), req)
	if err != nil || tok != "secret" || p.calls != 1 {
		t.Fatalf("cached Acquire = %q, %v (prompts=%d)", tok, err, p.calls)
	}
}

func TestAcquireEnvBeatsPrompt(t *testing.T) {
	req := newRequest(t, tracker.Redmine)
	p := &fakePrompter{token: "prompted"}
	m := &Manager{Getenv: env(map[string]string{EnvToken: " from-env "}), Prompter: p}
	tok, err := m.Acquire(context.Background(), req)
	if err != nil || tok != "from-env" || p.calls != 0 {
		t.Fatalf("Acquire = %q, %v (prompts=%d)", tok, err, p.calls)
	}
	store, err := LoadStore(req.TokensCache)
	if err != nil {
		t.Fatalf("LoadStore failed: %v", err)
	}
	if _, ok := store.Get(req.Key()); ok {
		t.Fatal("environment tokens must not be persisted")
	}
}

func TestAcquireCacheBeatsEnv(t *testing.T) {
	req := newRequest(t, tracker.GitLab)
	store, err := LoadStore(req.TokensCache)
	if err != nil {
		t.Fatalf("LoadStore failed: %v", err)
	}
	store.Set(req.Key(), "cached")
	if err := store.Save(req.TokensCache); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	m := &Manager{Getenv: env(map[string]string{EnvToken: "env"})}
	if tok, err := m.Acquire(context.Background(), req); err != nil || tok != "cached" {
		t.Fatalf("Acquire = %q, %v", tok, err)
	}
}

func TestAcquireGitHubFallbacks(t *testing.T) {
	req := newRequest(t, tracker.GitHub)
	req.Origin = "github.com/o/r"

	m := &Manager{Getenv: env(map[string]string{"GITHUB_TOKEN": "gh-env"}), Runner: &fakeRunner{out: "gh-cli\n"}}
	if tok, err := m.Acquire(context.Background(), req); err != nil || tok != "gh-env" {
		t.Fatalf("Acquire = %q, %v", tok, err)
	}

	runner := &fakeRunner{out: "gh-cli\n"}
	m = &Manager{Getenv: env(nil), Runner: runner, NoPrompt: true}
	if tok, err := m.Acquire(context.Background(), req); err != nil || tok != "gh-cli" || runner.calls != 1 {
		t.Fatalf("Acquire = %q, %v (calls=%d)", tok, err, runner.calls)
	}

	m = &Manager{Getenv: env(nil), Runner: &fakeRunner{err: errors.New("not logged in")}, NoPrompt: true}
	if _, err := m.Acquire(context.Background(), req); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestOfflineKeyIsOfflineURL(t *testing.T) {
	req := Request{Type: tracker.AuthOffline, Origin: "jira.example.com", OfflineURL: "https://jira.example.com/offline"}
	if req.Key() != "https://jira.example.com/offline" {
		t.Fatalf("Key = %q", req.Key())
	}
}

func TestForget(t *testing.T) {
	req := newRequest(t, tracker.GitLab)
	m := &Manager{Getenv: env(nil), Prompter: &fakePrompter{token: "secret"}}
	if _, err := m.Acquire(context.Background(), req); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	removed, err := m.Forget(req)
	if err != nil || !removed {
		t.Fatalf("Forget = %v, %v", removed, err)
	}
	removed, err = m.Forget(req)
	if err != nil || removed {
		t.Fatalf("second Forget = %v, %v", removed, err)
	}
}

func TestLoadStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "authtokens.yaml")
	if err := os.WriteFile(path, []byte("tokens: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStore(path); err == nil {
		t.Fatal("invalid yaml must fail")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TODOVET_AUTH_TOKEN=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "")
	os.Unsetenv(EnvToken)
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if got := os.Getenv(EnvToken); got != "from-file" {
		t.Fatalf("%s = %q", EnvToken, got)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("missing env file must fail")
	}
}

func TestTerminalPrompterReadsLine(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := w.WriteString("  tok123  \n"); err != nil {
		t.Fatal(err)
	}
	w.Close()

	out, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	tok, err := TerminalPrompter{In: r, Out: out}.ReadToken("Paste it")
	if err != nil || tok != "tok123" {
		t.Fatalf("ReadToken = %q, %v", tok, err)
	}
	data, _ := os.ReadFile(out.Name())
	if string(data) != "Paste it\nToken: " {
		t.Fatalf("prompt = %q", data)
	}
}
