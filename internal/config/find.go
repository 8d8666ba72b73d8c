package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when an explicitly requested config file is missing.
var ErrNotFound = errors.New("config file not found")

var (
	projectNames = []string{".todovet.yaml", ".todovet.yml", ".todovet.toml", ".todovet.json"}
	xdgNames     = []string{"config.yaml", "config.yml", "config.toml", "config.json"}
)

// searchDir is one directory Find looks into, with the label reported for
// a hit.
type searchDir struct {
	dir   string
	names []string
	where string
}

// Find locates the config file and reports where it came from: "explicit",
// "cwd-up" (basePath or one of its parents), "xdg" or "home". An empty path
// means there is no config file, which is not an error.
func Find(basePath, explicitPath, xdgHome, home string) (string, string, error) {
	if explicit := strings.TrimSpace(explicitPath); explicit != "" {
		path, err := checkExplicit(explicit)
		if err != nil {
			return "", "", err
		}
		return path, "explicit", nil
	}

	dirs, err := searchDirs(basePath, xdgHome, home)
	if err != nil {
		return "", "", err
	}
	for _, d := range dirs {
		for _, name := range d.names {
			path := filepath.Join(d.dir, name)
			if isRegular(path) {
				return path, d.where, nil
			}
		}
	}
	return "", "", nil
}

func checkExplicit(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("%w: %s", ErrNotFound, abs)
	case err != nil:
		return "", err
	case info.IsDir():
		return "", fmt.Errorf("config %q points to a directory", abs)
	}
	return abs, nil
}

// searchDirs lists basePath and its parents, then the XDG config directory,
// then home. home defaults to the current user's home directory.
func searchDirs(basePath, xdgHome, home string) ([]searchDir, error) {
	start := strings.TrimSpace(basePath)
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	var dirs []searchDir
	for {
		dirs = append(dirs, searchDir{dir: dir, names: projectNames, where: "cwd-up"})
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	home = strings.TrimSpace(home)
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	xdg := strings.TrimSpace(xdgHome)
	if xdg == "" && home != "" {
		xdg = filepath.Join(home, ".config")
	}
	if xdg != "" {
		dirs = append(dirs, searchDir{dir: filepath.Join(xdg, "todovet"), names: xdgNames, where: "xdg"})
	}
	if home != "" {
		dirs = append(dirs, searchDir{dir: home, names: projectNames, where: "home"})
	}
	return dirs, nil
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
