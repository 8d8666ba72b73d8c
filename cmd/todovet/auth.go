package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/phyten/todovet/internal/auth"
	"github.com/phyten/todovet/internal/logging"
	"github.com/phyten/todovet/internal/tracker"
)

// authCmd acquires, verifies and caches the token for the configured
// tracker. With --forget it removes the cached token instead.
func authCmd(ctx context.Context, args []string, d deps) int {
	cf, code, ok := parseCommand("auth", args, d)
	if !ok {
		return code
	}
	log, err := logging.New(cf.verbose)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	settings, path, err := loadSettings(ctx, cf, d, log)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	s := &session{flags: cf, settings: settings, configPath: path, log: log, deps: d}
	defer s.Close()

	if !settings.HasTracker() {
		fmt.Fprintln(d.stderr, "no issue tracker configured")
		return exitError
	}
	req := s.authRequest()
	if req.Type == tracker.AuthNone {
		fmt.Fprintf(d.stdout, "%s uses no authentication\n", settings.Origin)
		return exitOK
	}

	if cf.forget {
		m := auth.NewManager(log)
		removed, err := m.Forget(req)
		if err != nil {
			fmt.Fprintln(d.stderr, err)
			return exitError
		}
		if removed {
			fmt.Fprintf(d.stdout, "removed cached token for %s\n", req.Key())
		} else {
			fmt.Fprintf(d.stdout, "no cached token for %s\n", req.Key())
		}
		return exitOK
	}

	if err := s.connect(ctx); err != nil {
		if errors.Is(err, auth.ErrNoToken) {
			fmt.Fprintf(d.stderr, "%v\nset %s or run todovet auth in a terminal\n", err, auth.EnvToken)
			return exitError
		}
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	fmt.Fprintf(d.stdout, "authenticated with %s (%s)\n", settings.Origin, s.tracker.Kind())
	return exitOK
}
