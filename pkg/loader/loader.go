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

// Package loader selects and loads the native mapping provider matching the
// server a plugin runs on.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lexfrei/nmscompat/pkg/artifact"
	"github.com/lexfrei/nmscompat/pkg/host"
	"github.com/lexfrei/nmscompat/pkg/metrics"
	"github.com/lexfrei/nmscompat/pkg/nms"
	"github.com/lexfrei/nmscompat/pkg/version"
)

const (
	// DefaultPluginName names the plugin in diagnostics.
	DefaultPluginName = "SilkSpawners"

	// DefaultCompatibilityURL points users to the release page listing supported versions.
	DefaultCompatibilityURL = "https://www.spigotmc.org/resources/silkspawners-versions-1-8-8-1-18-2.60063/"

	// DisableReason is passed to the host when the plugin is disabled.
	DisableReason = "version incompatibility"
)

// State is the lifecycle state of a Resolver.
type State int

const (
	// StateUnloaded means Load has not run yet.
	StateUnloaded State = iota
	// StateLoaded means a provider is active.
	StateLoaded
	// StateDisabled means no provider matched and the plugin was disabled.
	StateDisabled
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AdapterRegistry looks up providers by revision tag.
type AdapterRegistry interface {
	Lookup(tag string) nms.Result
}

// Options configures a Resolver. Zero values select defaults.
type Options struct {
	Logger           *slog.Logger
	Recorder         metrics.Recorder
	PluginName       string
	CompatibilityURL string
}

// Resolver picks the provider for the host's revision tag.
// The tag is fixed at construction; Load runs at most once.
type Resolver struct {
	host     host.Host
	registry AdapterRegistry
	source   artifact.Source

	logger           *slog.Logger
	recorder         metrics.Recorder
	pluginName       string
	compatibilityURL string

	tag string

	once     sync.Once
	mu       sync.RWMutex
	state    State
	result   nms.Result
	provider nms.Provider
}

// New creates a Resolver and resolves the host's revision tag.
func New(h host.Host, registry AdapterRegistry, source artifact.Source, opts Options) *Resolver {
	r := &Resolver{
		host:             h,
		registry:         registry,
		source:           source,
		logger:           opts.Logger,
		recorder:         opts.Recorder,
		pluginName:       opts.PluginName,
		compatibilityURL: opts.CompatibilityURL,
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.recorder == nil {
		r.recorder = &metrics.NoopRecorder{}
	}
	if r.pluginName == "" {
		r.pluginName = DefaultPluginName
	}
	if r.compatibilityURL == "" {
		r.compatibilityURL = DefaultCompatibilityURL
	}
	if r.source == nil {
		r.source = artifact.NoSource{}
	}

	r.tag = ResolveVersionTag(h)

	return r
}

// ResolveVersionTag returns the revision tag for h.
func ResolveVersionTag(h host.Host) string {
	return version.ResolveTag(h.APIVersion(), h.ImplementationPackage())
}

// Tag returns the resolved revision tag.
func (r *Resolver) Tag() string {
	return r.tag
}

// State returns the lifecycle state.
func (r *Resolver) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state
}

// Provider returns the loaded provider, if any.
func (r *Resolver) Provider() (nms.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.provider, r.provider != nil
}

// Result returns the registry lookup result of Load.
// It is the zero Result before Load runs.
func (r *Resolver) Result() nms.Result {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.result
}

// Load looks up the provider for the resolved tag. On failure it logs the
// supported versions, asks the host to disable the plugin and returns false.
// Subsequent calls return the outcome of the first one.
func (r *Resolver) Load(ctx context.Context) bool {
	r.once.Do(func() {
		r.load(ctx)
	})

	return r.State() == StateLoaded
}

func (r *Resolver) load(ctx context.Context) {
	res := r.registry.Lookup(r.tag)
	r.recorder.RecordLoad(r.tag, res.Outcome.String())

	if res.Ok() {
		r.mu.Lock()
		r.result = res
		r.provider = res.Provider
		r.state = StateLoaded
		r.mu.Unlock()

		r.logger.InfoContext(ctx, "Loading support for NMS-Version "+r.tag, "tag", r.tag)

		return
	}

	r.mu.Lock()
	r.result = res
	r.state = StateDisabled
	r.mu.Unlock()

	r.logger.ErrorContext(ctx,
		fmt.Sprintf("The detected Server Version (%s) is not supported by the currently installed version of %s",
			r.tag, r.pluginName),
		"tag", r.tag, "outcome", res.Outcome.String(), "error", res.Err)

	supported := r.SupportedVersions(ctx)
	r.logger.InfoContext(ctx, fmt.Sprintf("Currently supported Versions are: %v", supported),
		"supported", supported)
	r.logger.InfoContext(ctx, "You can check for updates at "+r.compatibilityURL)
	r.logger.WarnContext(ctx, "Disabling plugin due to version incompatibility", "plugin", r.pluginName)

	if err := r.host.DisablePlugin(ctx, DisableReason); err != nil {
		r.logger.ErrorContext(ctx, "Failed to disable plugin", "plugin", r.pluginName, "error", err)
	}
}

// SupportedVersions scans the plugin artifact for bundled revisions.
// It never fails: scan errors yield a single diagnostic entry.
func (r *Resolver) SupportedVersions(ctx context.Context) []string {
	start := time.Now()
	tags, err := artifact.ScanTags(ctx, r.source)
	r.recorder.RecordArtifactScan(err, time.Since(start))

	if err != nil {
		r.logger.DebugContext(ctx, "Artifact scan failed", "location", r.source.Location(), "error", err)

		return []string{artifact.DiagnosticFor(err)}
	}

	return tags
}
