package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/phyten/todovet/internal/scan"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	log.SetFlags(0)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], defaultDeps())
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, d deps) int {
	if len(args) > 0 {
		switch args[0] {
		case "check":
			return checkCmd(ctx, args[1:], d)
		case "watch":
			return watchCmd(ctx, args[1:], d)
		case "serve":
			return serveCmd(ctx, args[1:], d)
		case "auth":
			return authCmd(ctx, args[1:], d)
		case "version":
			fmt.Fprintln(d.stdout, versionString())
			return exitOK
		case "help":
			printUsage(d.stdout)
			return exitOK
		}
	}
	return checkCmd(ctx, args, d)
}

func versionString() string {
	v := version
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	return "todovet " + v
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: todovet [command] [flags] [basepath]

Commands:
  check    report malformed TODOs and TODOs whose issue is closed or missing (default)
  watch    check again whenever a source file changes
  serve    browse the results in a web page (-p/--port, --open)
  auth     acquire and cache the issue tracker token (--forget to remove it)
  version  print the version

Exit status is 0 when nothing is found, 2 when there are findings and 1 on errors.
Run "todovet check -h" for the flags.

Languages: `+strings.Join(scan.Languages(), ", ")+"\n")
}
