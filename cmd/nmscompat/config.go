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
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"

	"github.com/lexfrei/nmscompat/pkg/artifact"
	"github.com/lexfrei/nmscompat/pkg/host"
	"github.com/lexfrei/nmscompat/pkg/plugins"
	"github.com/lexfrei/nmscompat/pkg/version"
)

// Config holds every CLI setting. Environment variables provide defaults,
// command-line flags override them.
type Config struct {
	LogLevel    string        `env:"NMSCOMPAT_LOG_LEVEL"    envDefault:"info"`
	LogFormat   string        `env:"NMSCOMPAT_LOG_FORMAT"   envDefault:"json"`
	MetricsFile string        `env:"NMSCOMPAT_METRICS_FILE"`
	Timeout     time.Duration `env:"NMSCOMPAT_TIMEOUT"      envDefault:"60s"`

	PluginName       string `env:"NMSCOMPAT_PLUGIN_NAME"       envDefault:"SilkSpawners"`
	CompatibilityURL string `env:"NMSCOMPAT_COMPATIBILITY_URL"`

	APIVersion            string `env:"NMSCOMPAT_API_VERSION"`
	ImplementationPackage string `env:"NMSCOMPAT_IMPLEMENTATION_PACKAGE"`

	RCONHost       string `env:"NMSCOMPAT_RCON_HOST"`
	RCONPort       int    `env:"NMSCOMPAT_RCON_PORT"       envDefault:"25575"`
	RCONPassword   string `env:"NMSCOMPAT_RCON_PASSWORD"`
	DisableCommand string `env:"NMSCOMPAT_DISABLE_COMMAND"`

	JAR           string `env:"NMSCOMPAT_JAR"`
	JARURL        string `env:"NMSCOMPAT_JAR_URL"`
	JARSHA256     string `env:"NMSCOMPAT_JAR_SHA256"`
	HangarProject string `env:"NMSCOMPAT_HANGAR_PROJECT"`

	Schedule string `env:"NMSCOMPAT_SCHEDULE" envDefault:"*/5 * * * *"`
}

// LoadConfig reads defaults from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	return cfg, nil
}

func (c *Config) bindCommon(fs *flag.FlagSet) {
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format (json, text)")
	fs.StringVar(&c.MetricsFile, "metrics-file", c.MetricsFile,
		"Write Prometheus metrics to this file for the node_exporter textfile collector")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Overall timeout for network operations")
}

func (c *Config) bindSource(fs *flag.FlagSet) {
	fs.StringVar(&c.JAR, "jar", c.JAR, "Path to the plugin JAR")
	fs.StringVar(&c.JARURL, "jar-url", c.JARURL, "HTTPS URL of the plugin JAR")
	fs.StringVar(&c.JARSHA256, "jar-sha256", c.JARSHA256, "Expected SHA256 of the JAR fetched from --jar-url")
	fs.StringVar(&c.HangarProject, "hangar-project", c.HangarProject,
		"Hangar project whose latest release is scanned")
}

func (c *Config) bindHost(fs *flag.FlagSet) {
	fs.StringVar(&c.APIVersion, "api-version", c.APIVersion, "Bukkit API version, e.g. 1.16.5-R0.1-SNAPSHOT")
	fs.StringVar(&c.ImplementationPackage, "implementation-package", c.ImplementationPackage,
		"Server implementation package, e.g. org.bukkit.craftbukkit.v1_16_R3 (derived from --api-version if empty)")
	fs.StringVar(&c.RCONHost, "rcon-host", c.RCONHost, "Query a live server over RCON instead of --api-version")
	fs.IntVar(&c.RCONPort, "rcon-port", c.RCONPort, "RCON port")
	fs.StringVar(&c.RCONPassword, "rcon-password", c.RCONPassword, "RCON password")
	fs.StringVar(&c.DisableCommand, "disable-command", c.DisableCommand,
		"Console command run on the server to disable the plugin; {plugin} is replaced by the plugin name")
	fs.StringVar(&c.PluginName, "plugin-name", c.PluginName, "Plugin name used in diagnostics")
	fs.StringVar(&c.CompatibilityURL, "compatibility-url", c.CompatibilityURL,
		"Where users can check for plugin updates")
}

func (c *Config) bindSchedule(fs *flag.FlagSet) {
	fs.StringVar(&c.Schedule, "schedule", c.Schedule, "Cron schedule of the checks")
}

// staticHost builds a host from --api-version and --implementation-package.
func (c *Config) staticHost() (*host.Static, error) {
	if c.APIVersion == "" {
		return nil, errors.New("either --api-version or --rcon-host is required")
	}

	pkg := c.ImplementationPackage
	if pkg != "" {
		return host.NewStatic(c.APIVersion, pkg), nil
	}

	pkg, ok := version.PackageFor(c.APIVersion)
	if !ok {
		return nil, errors.Newf("cannot derive implementation package for %s, set --implementation-package",
			c.APIVersion)
	}

	return host.NewStatic(c.APIVersion, pkg), nil
}

// artifactSource picks the artifact location from the configured flags.
// Without any, the returned source reports no location.
func (c *Config) artifactSource(
	ctx context.Context, finder plugins.ReleaseFinder, logger *slog.Logger,
) (artifact.Source, error) {
	switch {
	case c.JAR != "":
		return artifact.FileSource{Path: c.JAR}, nil

	case c.JARURL != "":
		if err := artifact.ValidateDownloadURL(c.JARURL); err != nil {
			return nil, errors.Wrap(err, "invalid --jar-url")
		}

		src := artifact.NewURLSource(c.JARURL)
		src.SHA256 = c.JARSHA256

		return src, nil

	case c.HangarProject != "":
		release, err := finder.LatestRelease(ctx, c.HangarProject)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to find release of %s", c.HangarProject)
		}

		if err := artifact.ValidateDownloadURL(release.DownloadURL); err != nil {
			return nil, errors.Wrapf(err, "release %s of %s has an unusable download", release.Version, c.HangarProject)
		}

		logger.InfoContext(ctx, "Using Hangar release",
			"project", c.HangarProject, "version", release.Version, "url", release.DownloadURL)

		src := artifact.NewURLSource(release.DownloadURL)
		src.SHA256 = release.Hash

		return src, nil

	default:
		return artifact.NoSource{}, nil
	}
}
