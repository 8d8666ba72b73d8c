// Package link はフォージ (GitHub / GitLab) 上の閲覧 URL を組み立てます。
package link

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/phyten/todovet/internal/gitremote"
)

// Repo はリポジトリのトップページ URL です。オーナーとリポジトリ名の
// 各セグメントはエスケープされます。
func Repo(info gitremote.Info) string {
	return info.WebScheme() + "://" + strings.TrimSuffix(info.Host, "/") + "/" + escapePath(info.Owner) + "/" + url.PathEscape(info.Repo)
}

// route は GitLab の /-/ 区切りを考慮したリポジトリ内のパスです。
func route(info gitremote.Info, kind string) string {
	if info.IsGitLab() {
		return Repo(info) + "/-/" + kind + "/"
	}
	return Repo(info) + "/" + kind + "/"
}

// Source はリビジョン rev におけるファイルの行への URL です。Markdown は
// レンダリングされないよう ?plain=1 を付けます。rev・file・line のいずれかが
// 欠けていれば空文字を返します。
func Source(info gitremote.Info, rev, file string, line int) string {
	if rev == "" || file == "" || line <= 0 {
		return ""
	}
	u := route(info, "blob") + rev + "/" + escapePath(file)
	if isMarkdown(file) {
		u += "?plain=1"
	}
	return u + "#L" + strconv.Itoa(line)
}

// Tree はリビジョン rev 時点のリポジトリトップの URL です。
func Tree(info gitremote.Info, rev string) string {
	if rev == "" {
		return ""
	}
	return route(info, "tree") + rev
}

func escapePath(p string) string {
	parts := strings.Split(strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func isMarkdown(file string) bool {
	lower := strings.ToLower(file)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
