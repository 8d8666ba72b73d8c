package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/phyten/todovet/internal/engine"
	"github.com/phyten/todovet/internal/scan"
	"github.com/phyten/todovet/internal/watch"
)

// watchCmd checks once and then again whenever a source file changes.
// It runs until interrupted and exits with the code of the last check.
func watchCmd(ctx context.Context, args []string, d deps) int {
	cf, code, ok := parseCommand("watch", args, d)
	if !ok {
		return code
	}
	s, err := newSession(ctx, cf, d)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	defer s.Close()

	last := s.checkOnce(ctx)

	ignored := engine.NormalizeIgnored(s.opts.Ignored)
	w, err := watch.New(s.opts.BasePath, watch.Options{
		SkipDir: func(rel string) bool { return engine.MatchIgnored(ignored, rel) },
		Accept: func(rel string) bool {
			return !engine.MatchIgnored(ignored, rel) && scan.Supported(rel)
		},
		Logger: s.log,
	})
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	fmt.Fprintf(d.stderr, "watching %s for changes (Ctrl-C to stop)\n", s.opts.BasePath)

	err = w.Run(ctx, func(ctx context.Context, changed []string) {
		s.log.Info("files changed", zap.Strings("files", changed))
		fmt.Fprintf(d.stderr, "\nchanged: %s\n", summarizeChanged(changed))
		last = s.checkOnce(ctx)
	})
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	return last
}

// checkOnce runs and reports a single check, returning its exit code.
func (s *session) checkOnce(ctx context.Context) int {
	res, err := s.run(ctx, nil)
	if err != nil {
		if ctx.Err() == nil {
			fmt.Fprintln(s.deps.stderr, err)
		}
		return exitError
	}
	code, err := s.report(res)
	if err != nil {
		fmt.Fprintln(s.deps.stderr, err)
		return exitError
	}
	fmt.Fprintln(s.deps.stderr, res.Describe())
	return code
}

func summarizeChanged(changed []string) string {
	const max = 3
	names := make([]string, 0, max)
	for i, c := range changed {
		if i == max {
			break
		}
		names = append(names, filepath.ToSlash(c))
	}
	out := strings.Join(names, ", ")
	if extra := len(changed) - max; extra > 0 {
		out += fmt.Sprintf(" (+%d more)", extra)
	}
	return out
}
