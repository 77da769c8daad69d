/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command nmscompat checks which native mapping adapter a server would load.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	goruntime "runtime"
	"syscall"

	mccron "github.com/lexfrei/nmscompat/pkg/cron"
	"github.com/lexfrei/nmscompat/pkg/paper"
	"github.com/lexfrei/nmscompat/pkg/plugins"
	"github.com/lexfrei/nmscompat/pkg/rcon"
)

var (
	// Version information set via ldflags.
	version   = "dev"
	gitCommit = "unknown"
	buildDate = ""
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// deps are the external services a command talks to.
type deps struct {
	paper   paper.VersionLister
	hangar  plugins.ReleaseFinder
	newRCON func(host string, port int, password string) (rcon.Client, error)

	newScheduler func() mccron.Scheduler
}

func defaultDeps() deps {
	return deps{
		paper:  paper.NewClient(),
		hangar: plugins.NewHangarClient(),
		newRCON: func(host string, port int, password string) (rcon.Client, error) {
			return rcon.NewRCONClient(host, port, password)
		},
		newScheduler: func() mccron.Scheduler {
			return mccron.NewRealScheduler()
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	if len(args) == 0 {
		usage(stderr)

		return exitUsage
	}

	name, rest := args[0], args[1:]

	switch name {
	case "resolve":
		return runResolve(ctx, rest, stdout, stderr, d)
	case "supported":
		return runSupported(ctx, rest, stdout, stderr, d)
	case "matrix":
		return runMatrix(ctx, rest, stdout, stderr, d)
	case "watch":
		return runWatch(ctx, rest, stdout, stderr, d)
	case "version":
		fmt.Fprintf(stdout, "nmscompat %s (commit %s, built %s, %s)\n",
			version, gitCommit, buildDate, goruntime.Version())

		return exitOK
	case "help", "-h", "--help":
		usage(stdout)

		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)

		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: nmscompat <command> [flags]

Commands:
  resolve    Resolve the revision tag of a server and load its adapter
  supported  List the adapter revisions bundled in a plugin JAR
  matrix     Show adapter support for every Paper release
  watch      Resolve a server on a cron schedule, refreshing --metrics-file
  version    Print build information

Run "nmscompat <command> -h" for command flags.
`)
}

// newLogger builds the slog logger selected by --log-level and --log-format.
func newLogger(logLevel, logFormat string, w io.Writer) *slog.Logger {
	var slogLevel slog.Level

	switch logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
		fmt.Fprintf(w, "WARNING: unknown log level %q, defaulting to \"info\"\n", logLevel)
	}

	handlerOpts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	var slogHandler slog.Handler

	switch logFormat {
	case "text":
		slogHandler = slog.NewTextHandler(w, handlerOpts)
	case "json":
		slogHandler = slog.NewJSONHandler(w, handlerOpts)
	default:
		fmt.Fprintf(w, "WARNING: unknown log format %q, defaulting to \"json\"\n", logFormat)

		slogHandler = slog.NewJSONHandler(w, handlerOpts)
	}

	return slog.New(slogHandler)
}
