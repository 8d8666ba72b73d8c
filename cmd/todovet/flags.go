package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phyten/todovet/internal/config"
	engineopts "github.com/phyten/todovet/internal/engine/opts"
)

// cliFlags holds the flags shared by check, watch, serve and auth.
type cliFlags struct {
	basePath     string
	configPath   string
	envFile      string
	format       string
	color        string
	origin       string
	issueTracker string
	ignored      multiFlag
	customTodos  multiFlag
	ignoreCase   bool
	jobs         int
	maxFileBytes int
	noCache      bool
	cacheTTL     string
	verbose      bool
	version      bool
	progress     bool
	noProgress   bool

	// serve
	port int
	open bool
	// auth
	forget bool

	visited map[string]bool
}

// multiFlag collects repeated or comma separated values.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, engineopts.SplitMulti([]string{v})...)
	return nil
}

func newFlagSet(name string, out io.Writer, cf *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&cf.basePath, "basepath", ".", "the path of the project to check")
	fs.StringVar(&cf.configPath, "config", "", "config file (default: .todovet.yaml found from basepath upward)")
	fs.StringVar(&cf.envFile, "env-file", "", "load KEY=VALUE pairs (e.g. TODOVET_AUTH_TOKEN) from this file")
	fs.StringVar(&cf.format, "format", "", "output format: "+strings.Join(engineopts.Formats, "|"))
	fs.StringVar(&cf.color, "color", "", "auto|always|never")
	fs.StringVar(&cf.origin, "origin", "", "issue tracker origin (e.g. github.com/owner/repo)")
	fs.StringVar(&cf.issueTracker, "issue-tracker", "", "GITHUB|GITLAB|JIRA|PIVOTAL_TRACKER|REDMINE|YOUTRACK|AZURE")
	fs.Var(&cf.ignored, "ignored", "ignored path or glob, relative to basepath (repeatable)")
	fs.Var(&cf.customTodos, "custom-todos", "tags to look for instead of the defaults (repeatable)")
	fs.BoolVar(&cf.ignoreCase, "ignore-case", false, "match tags case-insensitively")
	fs.IntVar(&cf.jobs, "jobs", 0, "max parallel workers (default: number of CPUs)")
	fs.IntVar(&cf.maxFileBytes, "max-file-bytes", 0, "skip files larger than this (0 = unlimited)")
	fs.BoolVar(&cf.noCache, "no-cache", false, "do not read or write the issue status cache")
	fs.StringVar(&cf.cacheTTL, "cache-ttl", "", "how long cached issue statuses stay valid (e.g. 10m)")
	fs.BoolVar(&cf.verbose, "verbose", false, "debug logging")
	fs.BoolVar(&cf.verbose, "v", false, "shorthand for --verbose")
	fs.BoolVar(&cf.version, "version", false, "print the version and exit")
	fs.BoolVar(&cf.progress, "progress", false, "force progress even when stderr is not a terminal")
	fs.BoolVar(&cf.noProgress, "no-progress", false, "disable progress")

	switch name {
	case "serve":
		fs.IntVar(&cf.port, "p", 8080, "port")
		fs.IntVar(&cf.port, "port", 8080, "port")
		fs.BoolVar(&cf.open, "open", false, "open the page in a browser")
	case "auth":
		fs.BoolVar(&cf.forget, "forget", false, "remove the cached token instead of acquiring one")
	}
	return fs
}

// usageError is a flag error the flag package has already printed.
type usageError struct{ error }

func isUsage(err error) bool {
	var ue usageError
	return errors.As(err, &ue)
}

func isHelp(err error) bool { return errors.Is(err, flag.ErrHelp) }

// parseArgs parses args for the named command. A single positional
// argument is taken as the base path. flag.ErrHelp is returned as is.
func parseArgs(name string, args []string, out io.Writer) (cliFlags, error) {
	var cf cliFlags
	fs := newFlagSet(name, out, &cf)
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return cf, err
			}
			return cf, usageError{err}
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}
	cf.visited = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { cf.visited[f.Name] = true })
	switch {
	case len(positional) == 0:
	case len(positional) == 1 && !cf.visited["basepath"]:
		cf.basePath = positional[0]
	default:
		return cf, fmt.Errorf("unexpected argument: %s", positional[len(positional)-1])
	}
	return cf, nil
}

// layer returns the flags that were set explicitly as a config layer.
func (cf cliFlags) layer() (config.Config, error) {
	var cfg config.Config
	var errs []error
	str := func(name, v string) *string {
		if !cf.visited[name] {
			return nil
		}
		return &v
	}
	cfg.Origin = str("origin", cf.origin)
	cfg.IssueTracker = str("issue-tracker", cf.issueTracker)
	cfg.Format = str("format", cf.format)
	cfg.Color = str("color", cf.color)
	if cf.visited["ignored"] {
		v := append([]string{}, cf.ignored...)
		cfg.Ignored = &v
	}
	if cf.visited["custom-todos"] {
		v := append([]string{}, cf.customTodos...)
		cfg.CustomTodos = &v
	}
	if cf.visited["ignore-case"] {
		v := !cf.ignoreCase
		cfg.MatchCaseSensitive = &v
	}
	if cf.visited["jobs"] {
		v := cf.jobs
		cfg.Jobs = &v
	}
	if cf.visited["max-file-bytes"] {
		v := cf.maxFileBytes
		cfg.MaxFileBytes = &v
	}
	if cf.visited["no-cache"] {
		v := cf.noCache
		cfg.Cache.Disabled = &v
	}
	if cf.visited["cache-ttl"] {
		d, err := config.ParseDuration(cf.cacheTTL, "--cache-ttl")
		if err != nil {
			errs = append(errs, err)
		} else {
			cfg.Cache.TTL = durationPtr(d)
		}
	}
	return cfg, errors.Join(errs...)
}

func durationPtr(d time.Duration) *time.Duration { return &d }
