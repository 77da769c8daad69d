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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lexfrei/nmscompat/pkg/artifact"
	mccron "github.com/lexfrei/nmscompat/pkg/cron"
	"github.com/lexfrei/nmscompat/pkg/host"
	"github.com/lexfrei/nmscompat/pkg/loader"
	"github.com/lexfrei/nmscompat/pkg/metrics"
	"github.com/lexfrei/nmscompat/pkg/nms/adapter"
	"github.com/lexfrei/nmscompat/pkg/version"
)

var errNoArtifact = errors.New("one of --jar, --jar-url or --hangar-project is required")

// session is the state shared by a single command invocation.
type session struct {
	cfg      Config
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	recorder metrics.Recorder
}

// parseCommand loads the environment defaults and parses args. A nil session
// means the command must exit with the returned code.
func parseCommand(
	name string, args []string, stderr io.Writer, bind ...func(*Config, *flag.FlagSet),
) (*session, int) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)

		return nil, exitUsage
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg.bindCommon(fs)

	for _, b := range bind {
		b(&cfg, fs)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exitOK
		}

		return nil, exitUsage
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())

		return nil, exitUsage
	}

	reg := prometheus.NewRegistry()

	return &session{
		cfg:      cfg,
		logger:   newLogger(cfg.LogLevel, cfg.LogFormat, stderr),
		gatherer: reg,
		recorder: metrics.NewPrometheusRecorder(reg),
	}, exitOK
}

func (s *session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.cfg.Timeout)
}

func (s *session) writeMetrics() {
	if s.cfg.MetricsFile == "" {
		return
	}

	if err := metrics.WriteTextfile(s.cfg.MetricsFile, s.gatherer); err != nil {
		s.logger.Error("Failed to write metrics", "error", err)
	}
}

// host returns the configured server. The returned func releases it.
func (s *session) host(ctx context.Context, d deps) (host.Host, func(), error) {
	if s.cfg.RCONHost == "" {
		h, err := s.cfg.staticHost()
		if err != nil {
			return nil, nil, err
		}

		return h, func() {}, nil
	}

	client, err := d.newRCON(s.cfg.RCONHost, s.cfg.RCONPort, s.cfg.RCONPassword)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create RCON client")
	}

	h, err := host.DiscoverRCON(ctx, client, s.recorder)
	if err != nil {
		return nil, nil, err
	}

	h.DisableCommand = s.cfg.DisableCommand
	h.Plugin = s.cfg.PluginName
	h.Logger = s.logger

	info := h.Info()
	s.logger.InfoContext(ctx, "Discovered server",
		"software", info.Software, "minecraft", info.MinecraftVersion, "api", info.APIVersion)

	return h, func() {
		if err := h.Close(); err != nil {
			s.logger.Warn("Failed to close RCON connection", "error", err)
		}
	}, nil
}

func runResolve(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	s, code := parseCommand("resolve", args, stderr, (*Config).bindHost, (*Config).bindSource)
	if s == nil {
		return code
	}
	defer s.writeMetrics()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	loaded, err := s.resolveOnce(ctx, d, s.diagnosticSource(ctx, d), nil, stdout)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to inspect server", "error", err)

		return exitFailure
	}

	if !loaded {
		return exitFailure
	}

	return exitOK
}

func runWatch(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	s, code := parseCommand("watch", args, stderr,
		(*Config).bindHost, (*Config).bindSource, (*Config).bindSchedule)
	if s == nil {
		return code
	}

	setupCtx, cancel := s.withTimeout(ctx)
	src := s.diagnosticSource(setupCtx, d)
	cancel()

	// Checks never overlap, so disabled needs no locking.
	disabled := make(map[string]bool)

	check := func(ctx context.Context) error {
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()
		defer s.writeMetrics()

		_, err := s.resolveOnce(ctx, d, src, disabled, stdout)

		return err
	}

	if err := mccron.Watch(ctx, d.newScheduler(), s.cfg.Schedule, check, s.logger); err != nil {
		s.logger.ErrorContext(ctx, "Failed to start watch", "error", err)

		return exitUsage
	}

	return exitOK
}

// diagnosticSource returns the configured artifact. The artifact only feeds
// diagnostics, so a broken location degrades to NoSource.
func (s *session) diagnosticSource(ctx context.Context, d deps) artifact.Source {
	src, err := s.cfg.artifactSource(ctx, d.hangar, s.logger)
	if err != nil {
		s.logger.WarnContext(ctx, "Plugin artifact unavailable", "error", err)

		return artifact.NoSource{}
	}

	return src
}

// resolveOnce loads the adapter for the configured server and prints the
// resolved tag and state. Tags in disabled were already disabled by an earlier
// run and are not loaded again; a nil map disables that tracking.
func (s *session) resolveOnce(
	ctx context.Context, d deps, src artifact.Source, disabled map[string]bool, stdout io.Writer,
) (bool, error) {
	h, release, err := s.host(ctx, d)
	if err != nil {
		return false, err
	}
	defer release()

	if tag := loader.ResolveVersionTag(h); disabled[tag] {
		s.logger.DebugContext(ctx, "Plugin already disabled for this revision", "tag", tag)
		fmt.Fprintf(stdout, "%s\t%s\n", tag, loader.StateDisabled)

		return false, nil
	}

	r := loader.New(h, adapter.NewRegistry(), src, loader.Options{
		Logger:           s.logger,
		Recorder:         s.recorder,
		PluginName:       s.cfg.PluginName,
		CompatibilityURL: s.cfg.CompatibilityURL,
	})

	loaded := r.Load(ctx)
	if !loaded && disabled != nil {
		disabled[r.Tag()] = true
	}

	fmt.Fprintf(stdout, "%s\t%s\n", r.Tag(), r.State())

	return loaded, nil
}

func runSupported(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	var showMetadata bool

	s, code := parseCommand("supported", args, stderr, (*Config).bindSource,
		func(_ *Config, fs *flag.FlagSet) {
			fs.BoolVar(&showMetadata, "metadata", false, "Print the plugin name and version before the revisions")
		})
	if s == nil {
		return code
	}
	defer s.writeMetrics()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	src, err := s.cfg.artifactSource(ctx, d.hangar, s.logger)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to locate plugin artifact", "error", err)

		return exitFailure
	}

	if _, none := src.(artifact.NoSource); none {
		fmt.Fprintf(stderr, "error: %v\n", errNoArtifact)

		return exitUsage
	}

	start := time.Now()

	archive, err := src.Open(ctx)
	if err != nil {
		s.recorder.RecordArtifactScan(err, time.Since(start))
		s.logger.ErrorContext(ctx, "Failed to open plugin artifact", "location", src.Location(), "error", err)

		return exitFailure
	}
	defer func() {
		_ = archive.Close()
	}()

	tags := slices.Collect(artifact.Tags(artifact.NewScan(archive).Names()))
	s.recorder.RecordArtifactScan(nil, time.Since(start))

	if showMetadata {
		meta, err := artifact.ReadMetadata(archive)
		if err != nil {
			s.logger.WarnContext(ctx, "Plugin descriptor unreadable", "error", err)
		} else {
			fmt.Fprintf(stdout, "# %s %s\n", meta.Name, meta.Version)
		}
	}

	for _, tag := range tags {
		fmt.Fprintln(stdout, tag)
	}

	return exitOK
}

func runMatrix(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	s, code := parseCommand("matrix", args, stderr, (*Config).bindSource)
	if s == nil {
		return code
	}
	defer s.writeMetrics()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	versions, err := d.paper.GetPaperVersions(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list Paper versions", "error", err)

		return exitFailure
	}

	src, err := s.cfg.artifactSource(ctx, d.hangar, s.logger)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to locate plugin artifact", "error", err)

		return exitFailure
	}

	_, noArtifact := src.(artifact.NoSource)

	var bundled map[string]bool

	if !noArtifact {
		start := time.Now()
		tags, err := artifact.ScanTags(ctx, src)
		s.recorder.RecordArtifactScan(err, time.Since(start))

		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to scan plugin artifact", "location", src.Location(), "error", err)

			return exitFailure
		}

		bundled = make(map[string]bool, len(tags))
		for _, tag := range tags {
			bundled[tag] = true
		}
	}

	registry := adapter.NewRegistry()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)

	if noArtifact {
		fmt.Fprintln(tw, "MINECRAFT\tTAG\tBUILTIN")
	} else {
		fmt.Fprintln(tw, "MINECRAFT\tTAG\tBUILTIN\tARTIFACT")
	}

	for _, v := range versions {
		tag, known := version.RevisionTag(v)
		if !known {
			tag = "-"
		}

		row := fmt.Sprintf("%s\t%s\t%s", v, tag, yesNo(known && registry.Has(tag)))
		if !noArtifact {
			row += "\t" + yesNo(known && bundled[tag])
		}

		fmt.Fprintln(tw, row)
	}

	if err := tw.Flush(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to write matrix", "error", err)

		return exitFailure
	}

	return exitOK
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
