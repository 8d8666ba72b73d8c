package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/phyten/todovet/internal/engine"
	engineopts "github.com/phyten/todovet/internal/engine/opts"
	"github.com/phyten/todovet/internal/output"
	"github.com/phyten/todovet/internal/progress"
	"github.com/phyten/todovet/internal/termcolor"
)

const (
	exitOK       = 0
	exitError    = 1
	exitFindings = 2
)

func checkCmd(ctx context.Context, args []string, d deps) int {
	cf, code, ok := parseCommand("check", args, d)
	if !ok {
		return code
	}
	s, err := newSession(ctx, cf, d)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	defer s.Close()

	res, err := s.run(ctx, nil)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	code, err = s.report(res)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return exitError
	}
	return code
}

// parseCommand handles --help, --version and usage errors common to every
// command. ok is false when the command should exit with code.
func parseCommand(name string, args []string, d deps) (cliFlags, int, bool) {
	cf, err := parseArgs(name, args, d.stderr)
	if err != nil {
		if isHelp(err) {
			return cf, exitOK, false
		}
		if !isUsage(err) {
			fmt.Fprintln(d.stderr, err)
		}
		return cf, exitError, false
	}
	if cf.version {
		fmt.Fprintln(d.stdout, versionString())
		return cf, exitOK, false
	}
	return cf, 0, true
}

// run scans the base path once. extra receives progress updates in
// addition to the terminal observer.
func (s *session) run(ctx context.Context, extra progress.Observer) (*engine.Result, error) {
	opts := s.opts
	var observers []progress.Observer
	if progress.ShouldShow(s.flags.progress, s.flags.noProgress, s.deps.stderr) {
		observers = append(observers, progress.NewObserver(s.deps.stderr))
	}
	if extra != nil {
		observers = append(observers, extra)
	}
	if len(observers) > 0 {
		opts.ProgressObserver = progress.Tee(observers...)
	}
	res, err := engine.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.log.Debug("check finished",
		zap.Int("files", res.Files),
		zap.Int("occurrences", res.Occurrences),
		zap.Int("findings", len(res.Findings)),
		zap.Int64("elapsed_ms", res.ElapsedMS))
	return res, nil
}

// report prints res in the configured format and returns the exit code.
func (s *session) report(res *engine.Result) (int, error) {
	format, err := engineopts.NormalizeFormat(s.settings.Format)
	if err != nil {
		return exitError, err
	}
	out := s.deps.stdout
	if output.ToStderr(format) {
		out = s.deps.stderr
	}
	p, err := s.painter(out)
	if err != nil {
		return exitError, err
	}
	if err := output.Write(out, format, res.Findings, p); err != nil {
		return exitError, err
	}
	reportErrors(s.deps.stderr, res)
	if len(res.Findings) > 0 {
		return exitFindings, nil
	}
	return exitOK, nil
}

func reportErrors(w io.Writer, res *engine.Result) {
	if res == nil || res.ErrorCount == 0 {
		return
	}
	fmt.Fprintf(w, "%d error(s) while checking:\n", res.ErrorCount)
	for _, e := range res.Errors {
		loc := "(unknown location)"
		if e.File != "" {
			loc = e.File
			if e.Line > 0 {
				loc = fmt.Sprintf("%s:%d", e.File, e.Line)
			}
		}
		stage := e.Stage
		if stage == "" {
			stage = "check"
		}
		fmt.Fprintf(w, "  %s [%s] %s\n", loc, stage, e.Message)
	}
	if hidden := res.ErrorCount - len(res.Errors); hidden > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", hidden)
	}
}

// painter colors output written to w according to --color and the
// environment seen through deps.getenv.
func (s *session) painter(w io.Writer) (termcolor.Painter, error) {
	return termcolor.NewPainter(s.settings.Color, w, termcolor.LookupEnv(s.deps.getenv))
}
