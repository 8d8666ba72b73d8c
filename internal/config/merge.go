package config

import (
	"path/filepath"
	"strings"
)

// Merge applies layers over base in order, so later layers win.
// ~ in paths is expanded with home.
func Merge(base Settings, home string, layers ...Config) Settings {
	out := base
	out.Ignored = cloneStrings(base.Ignored)
	out.CustomTodos = cloneStrings(base.CustomTodos)
	for _, layer := range layers {
		overlayText(&out.Origin, layer.Origin)
		overlayText(&out.IssueTracker, layer.IssueTracker)
		overlayList(&out.Ignored, layer.Ignored)
		overlayList(&out.CustomTodos, layer.CustomTodos)
		overlay(&out.MatchCaseSensitive, layer.MatchCaseSensitive)
		overlayText(&out.Format, layer.Format)
		overlayText(&out.Color, layer.Color)
		overlay(&out.Jobs, layer.Jobs)
		overlay(&out.MaxFileBytes, layer.MaxFileBytes)

		overlayText(&out.Auth.Type, layer.Auth.Type)
		overlayText(&out.Auth.OfflineURL, layer.Auth.OfflineURL)
		overlayText(&out.Auth.TokensCache, layer.Auth.TokensCache)
		overlay(&out.Auth.Username, layer.Auth.Username)

		overlayText(&out.Cache.Path, layer.Cache.Path)
		overlay(&out.Cache.TTL, layer.Cache.TTL)
		overlay(&out.Cache.Disabled, layer.Cache.Disabled)
	}
	if out.Format == "" {
		out.Format = "standard"
	}
	if out.Color == "" {
		out.Color = "auto"
	}
	if out.Auth.Type == "" {
		out.Auth.Type = "none"
	}
	out.Auth.TokensCache = ExpandHome(out.Auth.TokensCache, home)
	out.Cache.Path = ExpandHome(out.Cache.Path, home)
	return out
}

// ExpandHome replaces a leading ~ with home.
func ExpandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func overlayText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// overlayList replaces dst with a copy of v. An explicitly empty list
// clears the lower layers.
func overlayList(dst *[]string, v *[]string) {
	if v == nil {
		return
	}
	if len(*v) == 0 {
		*dst = []string{}
		return
	}
	*dst = cloneStrings(*v)
}
