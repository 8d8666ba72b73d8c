package tracker

import (
	"github.com/phyten/todovet/internal/gitremote"
)

// FromRemote derives the tracker and origin of a repository that uses its
// forge's own issues. ok is false for hosts that cannot be recognised.
func FromRemote(info gitremote.Info) (kind Kind, origin string, ok bool) {
	switch {
	case info.IsGitHub():
		return GitHub, info.Origin(), true
	case info.IsGitLab():
		origin = info.Origin()
		if info.WebScheme() == "http" {
			origin = "http://" + origin
		}
		return GitLab, origin, true
	default:
		return "", "", false
	}
}
