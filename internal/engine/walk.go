package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/phyten/todovet/internal/scan"
)

// NormalizeIgnored は ignored の各パターンから末尾の "/" と先頭の "./" を取り除きます。
func NormalizeIgnored(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		p = strings.TrimRight(p, "/")
		for strings.HasPrefix(p, "./") {
			p = p[2:]
		}
		if p == "" || p == "." {
			continue
		}
		out = append(out, p)
	}
	return out
}

// isIgnored は base からの相対パス rel が ignored のいずれかに一致するかを返します。
// 区切りを含まないパターンは各階層の名前とも照合します。
func isIgnored(patterns []string, rel string) (bool, error) {
	rel = filepath.ToSlash(rel)
	name := rel
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		name = rel[i+1:]
	}
	for _, p := range patterns {
		ok, err := filepath.Match(p, rel)
		if err != nil {
			return false, fmt.Errorf("invalid ignored pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
		if strings.Contains(p, "/") {
			continue
		}
		if ok, _ := filepath.Match(p, name); ok {
			return true, nil
		}
	}
	return false, nil
}

// MatchIgnored reports whether rel is excluded by the normalized patterns.
// Invalid patterns never match.
func MatchIgnored(patterns []string, rel string) bool {
	ok, _ := isIgnored(patterns, rel)
	return ok
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.' && name != ".."
}

// collectFiles は base 以下の走査対象ファイルを base からの相対パスで返します。
// base がファイルの場合はそのファイルだけを返します。
func collectFiles(base string, ignored []string, log *zap.Logger) ([]string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("couldn't traverse %s: %w", base, err)
	}
	if !info.IsDir() {
		return []string{filepath.Base(base)}, nil
	}

	var files []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("couldn't traverse %s: %w", path, err)
		}
		if path == base {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		ignoredPath, err := isIgnored(ignored, rel)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if isHidden(d.Name()) || ignoredPath {
				log.Debug("skipping ignored dir", zap.String("path", path))
				return filepath.SkipDir
			}
			return nil
		}
		if ignoredPath || isHidden(d.Name()) || !d.Type().IsRegular() {
			return nil
		}
		if !scan.Supported(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// fileBase は collectFiles の相対パスを解決するディレクトリを返します。
func fileBase(base string) string {
	info, err := os.Stat(base)
	if err == nil && !info.IsDir() {
		return filepath.Dir(base)
	}
	return base
}
