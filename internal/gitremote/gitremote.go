// Package gitremote は作業ツリーの git リモートから課題管理とリンク生成に
// 必要な情報を取り出します。
package gitremote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/phyten/todovet/internal/execx"
)

// Info はリモート URL のホスト・オーナー・リポジトリです。
// Owner には GitLab のサブグループも含まれます。
type Info struct {
	Host   string
	Owner  string
	Repo   string
	Scheme string
}

// Repo は Dir を作業ディレクトリとして git を実行します。
type Repo struct {
	Dir    string
	Runner execx.Runner
	// Getenv は TODOVET_REMOTE と TODOVET_LINK_SCHEME の参照先です。nil なら os.Getenv を使います。
	Getenv func(string) string
}

func (r Repo) env(key string) string {
	if r.Getenv == nil {
		return strings.TrimSpace(os.Getenv(key))
	}
	return strings.TrimSpace(r.Getenv(key))
}

func (r Repo) git(ctx context.Context, args ...string) (string, error) {
	return execx.Output(ctx, r.Runner, r.Dir, "git", args...)
}

// RemoteName は TODOVET_REMOTE、未設定なら origin です。
func (r Repo) RemoteName() string {
	if name := r.env("TODOVET_REMOTE"); name != "" {
		return name
	}
	return "origin"
}

// Remote はリモート URL を解析します。TODOVET_LINK_SCHEME (http/https) が
// 設定されていればスキームを上書きします。
func (r Repo) Remote(ctx context.Context) (Info, error) {
	key := "remote." + r.RemoteName() + ".url"
	raw, err := r.git(ctx, "config", "--get", key)
	if err != nil {
		return Info{}, fmt.Errorf("git config --get %s: %w", key, err)
	}
	info, err := Parse(raw)
	if err != nil {
		return Info{}, err
	}
	switch s := strings.ToLower(r.env("TODOVET_LINK_SCHEME")); s {
	case "http", "https":
		info.Scheme = s
	}
	return info, nil
}

// Head は HEAD のコミット SHA を返します。
func (r Repo) Head(ctx context.Context) (string, error) {
	sha, err := r.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD: %w", err)
	}
	if sha == "" {
		return "", errors.New("HEAD revision is empty")
	}
	return sha, nil
}

// Prefix は Dir のリポジトリルートからの相対パスを "/" 区切り・末尾 "/" 付きで返します。
// ルート自身では空文字です。
func (r Repo) Prefix(ctx context.Context) (string, error) {
	return r.git(ctx, "rev-parse", "--show-prefix")
}

// Parse は scp 形式 (git@host:owner/repo.git) と ssh/git/http(s) の URL を解析します。
// http(s) 以外ではスキームは空になります。
func Parse(raw string) (Info, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Info{}, errors.New("empty remote url")
	case strings.HasPrefix(raw, "git@"):
		host, rest, ok := strings.Cut(strings.TrimPrefix(raw, "git@"), ":")
		if !ok {
			return Info{}, fmt.Errorf("invalid ssh remote: %s", raw)
		}
		return newInfo(host, rest, "")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "http", "https":
	case "ssh", "git":
		scheme = ""
	default:
		return Info{}, fmt.Errorf("unsupported remote url: %s", raw)
	}
	p, err := url.PathUnescape(u.Path)
	if err != nil {
		return Info{}, fmt.Errorf("invalid remote path: %w", err)
	}
	return newInfo(u.Host, p, scheme)
}

func newInfo(host, repoPath, scheme string) (Info, error) {
	p := strings.ReplaceAll(strings.TrimSpace(repoPath), `\`, "/")
	p = strings.Trim(p, "/")
	p = strings.Trim(strings.TrimSuffix(p, ".git"), "/")
	i := strings.LastIndex(p, "/")
	if i <= 0 || i == len(p)-1 {
		return Info{}, fmt.Errorf("remote url must include owner and repo: %q", repoPath)
	}
	return Info{
		Host:   strings.ToLower(strings.TrimSpace(host)),
		Owner:  p[:i],
		Repo:   p[i+1:],
		Scheme: scheme,
	}, nil
}

// Origin は設定ファイルの origin と同じ "host/owner/repo" 形式です。
func (i Info) Origin() string {
	return i.Host + "/" + i.Owner + "/" + i.Repo
}

// Hostname はポートを除いたホスト名です。
func (i Info) Hostname() string {
	h, _, _ := strings.Cut(i.Host, ":")
	return h
}

// IsGitHub は github.com のリモートかどうかを返します。
func (i Info) IsGitHub() bool {
	return strings.EqualFold(i.Hostname(), "github.com")
}

// IsGitLab は gitlab.com または gitlab. で始まるホストかどうかを返します。
func (i Info) IsGitLab() bool {
	h := strings.ToLower(i.Hostname())
	return h == "gitlab.com" || strings.HasPrefix(h, "gitlab.")
}

// WebScheme はブラウザ用 URL のスキームです。http 以外は https になります。
func (i Info) WebScheme() string {
	if strings.EqualFold(i.Scheme, "http") {
		return "http"
	}
	return "https"
}
