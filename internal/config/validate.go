package config

import (
	"errors"
	"fmt"
	"net/url"

	engineopts "github.com/phyten/todovet/internal/engine/opts"
	"github.com/phyten/todovet/internal/termcolor"
	"github.com/phyten/todovet/internal/tracker"
)

// Normalize canonicalizes the tracker, auth type and format spellings.
func Normalize(s Settings) (Settings, []error) {
	var errs []error
	if s.IssueTracker != "" {
		kind, err := tracker.ParseKind(s.IssueTracker)
		if err != nil {
			errs = append(errs, err)
		} else {
			s.IssueTracker = string(kind)
		}
	}
	authType, err := tracker.ParseAuthType(s.Auth.Type)
	if err != nil {
		errs = append(errs, err)
	} else {
		s.Auth.Type = string(authType)
	}
	format, err := engineopts.NormalizeFormat(s.Format)
	if err != nil {
		errs = append(errs, err)
	} else {
		s.Format = format
	}
	return s, errs
}

// Validate reports every problem of a normalized configuration. Checks that
// need the network, such as the project existing, are done by the caller.
func Validate(s Settings) []error {
	var errs []error
	if _, err := termcolor.ParseMode(s.Color); err != nil {
		errs = append(errs, err)
	}
	if s.Jobs < 1 || s.Jobs > engineopts.MaxJobs {
		errs = append(errs, fmt.Errorf("jobs must be between 1 and %d", engineopts.MaxJobs))
	}
	if s.MaxFileBytes < 0 {
		errs = append(errs, errors.New("max_file_bytes must be >= 0"))
	}

	authType := tracker.AuthType(s.Auth.Type)
	if authType == tracker.AuthOffline {
		if s.Auth.OfflineURL == "" {
			errs = append(errs, fmt.Errorf("auth type chosen was %q but \"offline_url\" is not set", s.Auth.Type))
		} else if _, err := url.ParseRequestURI(s.Auth.OfflineURL); err != nil {
			errs = append(errs, fmt.Errorf("invalid offline URL: %q", s.Auth.OfflineURL))
		}
	}

	if !s.HasTracker() {
		if s.Origin != "" {
			errs = append(errs, fmt.Errorf("origin %s is set but issue_tracker is not", s.Origin))
		}
		return errs
	}
	kind, err := tracker.ParseKind(s.IssueTracker)
	if err != nil {
		// reported by Normalize
		return errs
	}
	if err := tracker.ValidateOrigin(kind, s.Origin); err != nil {
		errs = append(errs, err)
	}
	if err := tracker.ValidateAuthType(kind, authType); err != nil {
		errs = append(errs, err)
	}
	if kind == tracker.Jira && authType == tracker.AuthAPIToken && s.Auth.Username == "" {
		errs = append(errs, errors.New("api token authentication for JIRA requires username to be set in auth.options.username"))
	}
	return errs
}

// Check normalizes s and returns it together with every problem found,
// joined into one error.
func Check(s Settings) (Settings, error) {
	s, errs := Normalize(s)
	errs = append(errs, Validate(s)...)
	return s, errors.Join(errs...)
}
